package macro

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/lines"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/exp/slices"
)

// MaxLength is the longest text a macro expansion may produce
const MaxLength = 4096

type Macro struct {
	Name  string
	Value string
}

// Table keeps every definition ever made. Redefining a name appends a new
// entry; lookups see the newest one.
type Table struct {
	entries []Macro
}

func NewTable() *Table {
	return &Table{entries: make([]Macro, 0)}
}

func (table *Table) Define(name, value string) {
	table.entries = append(table.entries, Macro{Name: name, Value: value})
}

func (table *Table) Lookup(name string) (string, bool) {
	value, found := "", false
	for _, entry := range table.entries {
		if entry.Name == name {
			value, found = entry.Value, true
		}
	}

	return value, found
}

func (table *Table) Defined(name string) bool {
	_, ok := table.Lookup(name)
	return ok
}

// Macros returns every entry in definition order, shadowed ones included
func (table *Table) Macros() []Macro {
	return slices.Clone(table.entries)
}

func (table *Table) Len() int {
	return len(table.entries)
}

// ParseDefinition splits a "name = value" line. The name ends at the first
// blank or '='; blanks around '=' are dropped.
func ParseDefinition(text string) (name, value string, ok bool) {
	end := strings.IndexAny(text, " \t=")
	if end <= 0 {
		return "", "", false
	}

	name = text[:end]
	rest := strings.TrimLeft(text[end:], " \t")
	if !strings.HasPrefix(rest, "=") {
		return "", "", false
	}

	return name, strings.TrimLeft(rest[1:], " \t"), true
}

// DefineLine parses and stores a macro definition line
func (table *Table) DefineLine(line lines.Line) hcl.Diagnostics {
	name, value, ok := ParseDefinition(line.Text)
	if !ok {
		return diag.Error(diag.MacroSyntax, line.Text, line.Subject())
	}

	table.Define(name, value)
	return nil
}

func isSpecial(c byte) bool {
	return c == '*' || c == '<' || c == '@' || c == '?'
}

// Expand substitutes named macros in a single left to right pass. Special
// macros ($@ $* $< $? and their parenthesised forms), "$$" and "\$" are
// copied untouched for the command expansion stage. The returned flag
// reports whether any substitution happened.
func (table *Table) Expand(src string, maxLen int) (string, bool, hcl.Diagnostics) {
	var out strings.Builder
	changed := false
	tooLong := func() bool { return out.Len() > maxLen }

	for pos := 0; pos < len(src); {
		if tooLong() {
			return "", false, diag.Error(diag.ExpandTooLong, src, nil)
		}

		switch c := src[pos]; c {
		case '\\':
			out.WriteByte(c)
			pos++
			if pos < len(src) {
				out.WriteByte(src[pos])
				pos++
			}
		case '$':
			pos++
			if pos >= len(src) {
				out.WriteByte('$')
				continue
			}

			next := src[pos]
			switch {
			case isSpecial(next) || next == '$':
				out.WriteByte('$')
				out.WriteByte(next)
				pos++
			case next == '(':
				end := strings.IndexByte(src[pos:], ')')
				if end < 0 {
					return "", false, diag.Error(diag.NoRightParen, src, nil)
				}

				name := src[pos+1 : pos+end]
				pos += end + 1
				if name == "" {
					continue
				}

				if isSpecial(name[0]) {
					out.WriteString("$(" + name + ")")
					continue
				}

				value, ok := table.Lookup(name)
				if !ok {
					return "", false, diag.Error(diag.NoMacro, name, nil)
				}
				out.WriteString(value)
				changed = true
			default:
				name := string(next)
				pos++
				value, ok := table.Lookup(name)
				if !ok {
					return "", false, diag.Error(diag.NoMacro, name, nil)
				}
				out.WriteString(value)
				changed = true
			}
		default:
			out.WriteByte(c)
			pos++
		}
	}

	if tooLong() {
		return "", false, diag.Error(diag.ExpandTooLong, src, nil)
	}

	return out.String(), changed, nil
}

// MaxPasses bounds the number of Expand passes ExpandAll makes
const MaxPasses = 256

// ExpandAll repeats Expand until a pass performs no substitution. Macros
// that expand back to an earlier text never finish and are reported like
// an expansion that grows too long.
func (table *Table) ExpandAll(src string, maxLen int) (string, hcl.Diagnostics) {
	text := src
	seen := map[string]bool{src: true}
	for pass := 0; pass < MaxPasses; pass++ {
		expanded, changed, diags := table.Expand(text, maxLen)
		if diags.HasErrors() {
			// report the text as it was written, not a partial expansion
			for _, d := range diags {
				if d.Summary == diag.ExpandTooLong {
					d.Detail = src
				}
			}
			return "", diags
		}

		if !changed {
			return expanded, nil
		}

		if seen[expanded] {
			break
		}
		seen[expanded] = true
		text = expanded
	}

	return "", diag.Error(diag.ExpandTooLong, src, nil)
}
