package parser

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/lexer"
	"dxmake/internal/lines"
	"dxmake/internal/macro"
	"dxmake/internal/precious"
	"dxmake/internal/rule"
	"dxmake/internal/suffix"
	"dxmake/internal/target"

	"github.com/hashicorp/hcl/v2"
)

// Tables is everything a makefile can declare. Ignore and Silent are set by
// the .IGNORE and .SILENT pseudo-targets.
type Tables struct {
	Macros   *macro.Table
	Suffixes *suffix.Registry
	Rules    *rule.Registry
	Targets  *target.Registry
	Precious *precious.Registry
	Ignore   bool
	Silent   bool
}

func NewTables() *Tables {
	return &Tables{
		Macros:   macro.NewTable(),
		Suffixes: suffix.NewRegistry(),
		Rules:    rule.NewRegistry(),
		Targets:  target.NewRegistry(),
		Precious: precious.NewRegistry(),
	}
}

// Kind is the section a logical line starts
type Kind int

const (
	Invalid Kind = iota
	Blank
	Macro
	Pseudo
	Rule
	Target
)

func (kind Kind) String() string {
	switch kind {
	case Blank:
		return "blank"
	case Macro:
		return "macro"
	case Pseudo:
		return "pseudo-target"
	case Rule:
		return "rule"
	case Target:
		return "target"
	}

	return "invalid"
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// Classify decides what kind of section a logical line starts
func Classify(text string) Kind {
	if strings.TrimLeft(text, " \t") == "" || strings.HasPrefix(text, "#") {
		return Blank
	}

	// a macro has '=' right after its first word
	pos := 0
	for pos < len(text) && !isBlank(text[pos]) && text[pos] != '=' {
		pos++
	}
	for pos < len(text) && isBlank(text[pos]) {
		pos++
	}
	if pos < len(text) && text[pos] == '=' {
		return Macro
	}

	switch {
	case rule.IsHeader(text):
		return Rule
	case text[0] == '.':
		return Pseudo
	case !isBlank(text[0]):
		return Target
	}

	return Invalid
}

// Parse reads every section from lex into tables. The first error stops
// the parse.
func Parse(lex *lexer.Lexer, tables *Tables) hcl.Diagnostics {
	for {
		line, ok, diags := lex.Next()
		if diags.HasErrors() {
			return diags
		}
		if !ok {
			return nil
		}

		switch Classify(line.Text) {
		case Blank:
			continue
		case Macro:
			diags = tables.Macros.DefineLine(line)
		case Pseudo:
			diags = tables.pseudo(line)
		case Rule:
			diags = tables.rule(lex, line)
		case Target:
			diags = tables.target(lex, line)
		default:
			diags = diag.Error(diag.Syntax, line.Text, line.Subject())
		}

		if diags.HasErrors() {
			return diags
		}
	}
}

func (tables *Tables) pseudo(line lines.Line) hcl.Diagnostics {
	switch {
	case strings.HasPrefix(line.Text, ".SUFFIXES"):
		return tables.Suffixes.Declare(line)
	case strings.HasPrefix(line.Text, ".PRECIOUS"):
		return tables.Precious.Declare(line)
	case strings.HasPrefix(line.Text, ".IGNORE"):
		tables.Ignore = true
	case strings.HasPrefix(line.Text, ".SILENT"):
		tables.Silent = true
	default:
		return diag.Error(diag.BadPseudo, line.Text, line.Subject())
	}

	return nil
}

func (tables *Tables) rule(lex *lexer.Lexer, header lines.Line) hcl.Diagnostics {
	source, dest, diags := rule.ParseHeader(header)
	if diags.HasErrors() {
		return diags
	}

	commands, diags := readCommands(lex)
	if diags.HasErrors() {
		return diags
	}

	tables.Rules.Define(&rule.Rule{
		Source:   source,
		Dest:     dest,
		Commands: commands,
		Range:    header.Range,
	})
	return nil
}

// target defines one descriptor per name on the header line; the extra
// names get independent copies
func (tables *Tables) target(lex *lexer.Lexer, header lines.Line) hcl.Diagnostics {
	names, dependents, diags := target.ParseHeader(header)
	if diags.HasErrors() {
		return diags
	}

	first := &target.Target{
		Name:          names[0],
		Dependents:    dependents,
		HasDependents: dependents != "",
		Range:         header.Range,
	}
	if diags := tables.Targets.Define(first); diags.HasErrors() {
		return diags
	}

	first.Commands, diags = readCommands(lex)
	if diags.HasErrors() {
		return diags
	}

	for _, name := range names[1:] {
		if diags := tables.Targets.Define(first.Copy(name)); diags.HasErrors() {
			return diags
		}
	}

	return nil
}

// readCommands collects the indented lines following a header. The first
// line that is not indented is pushed back for the caller.
func readCommands(lex *lexer.Lexer) (lines.List, hcl.Diagnostics) {
	commands := lines.List{}
	for {
		line, ok, diags := lex.Next()
		if diags.HasErrors() {
			return lines.List{}, diags
		}
		if !ok {
			return commands, nil
		}

		if line.Text == "" || !isBlank(line.Text[0]) {
			lex.Unread(line)
			return commands, nil
		}

		text := strings.TrimLeft(line.Text, " \t")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		line.Text = text
		commands.Append(line)
	}
}
