package lexer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/lines"
	"dxmake/internal/macro"

	"github.com/hashicorp/hcl/v2"
)

// MaxIfs is the deepest !IFDEF/!IFNDEF nesting accepted
const MaxIfs = 8

type branch struct {
	active bool
	line   lines.Line
}

// Lexer produces the logical lines of a makefile: continuation lines are
// joined, comments and conditional directives are consumed and named macros
// are expanded. A single line may be pushed back with Unread.
type Lexer struct {
	filename string
	src      []byte
	offset   int
	number   int
	pending  *lines.Line
	branches []branch
	macros   *macro.Table
	out      io.Writer
}

// New creates a lexer over src. !MESSAGE text is written to out.
func New(filename string, src []byte, macros *macro.Table, out io.Writer) *Lexer {
	if out == nil {
		out = io.Discard
	}

	return &Lexer{
		filename: filename,
		src:      src,
		macros:   macros,
		out:      out,
		branches: make([]branch, 0, MaxIfs),
	}
}

func (lexer *Lexer) Filename() string {
	return lexer.filename
}

// Unread pushes line back; the next call to Next returns it again
func (lexer *Lexer) Unread(line lines.Line) {
	lexer.pending = &line
}

// physical returns the next physical line without its line terminator
func (lexer *Lexer) physical() (text string, start, end hcl.Pos, ok bool) {
	if lexer.offset >= len(lexer.src) {
		return "", hcl.Pos{}, hcl.Pos{}, false
	}

	lexer.number++
	rest := lexer.src[lexer.offset:]
	length := bytes.IndexByte(rest, '\n')
	consumed := length + 1
	if length < 0 {
		length = len(rest)
		consumed = length
	}

	raw := rest[:length]
	start = hcl.Pos{Line: lexer.number, Column: 1, Byte: lexer.offset}
	end = hcl.Pos{Line: lexer.number, Column: len(raw) + 1, Byte: lexer.offset + len(raw)}
	lexer.offset += consumed
	return strings.ReplaceAll(string(raw), "\r", ""), start, end, true
}

// logical joins physical lines ending in a single backslash
func (lexer *Lexer) logical() (lines.Line, bool) {
	text, start, end, ok := lexer.physical()
	if !ok {
		return lines.Line{}, false
	}

	for strings.HasSuffix(text, `\`) && !strings.HasSuffix(text, `\\`) {
		next, _, nextEnd, ok := lexer.physical()
		if !ok {
			text = strings.TrimSuffix(text, `\`)
			break
		}

		text = strings.TrimSuffix(text, `\`) + next
		end = nextEnd
	}

	return lines.Line{
		Text:  text,
		Range: hcl.Range{Filename: lexer.filename, Start: start, End: end},
	}, true
}

func (lexer *Lexer) skipping() bool {
	for _, b := range lexer.branches {
		if !b.active {
			return true
		}
	}

	return false
}

// Next returns the next logical line. ok is false at the end of input.
func (lexer *Lexer) Next() (line lines.Line, ok bool, diags hcl.Diagnostics) {
	if lexer.pending != nil {
		line = *lexer.pending
		lexer.pending = nil
		return line, true, nil
	}

	for {
		line, ok = lexer.logical()
		if !ok {
			if len(lexer.branches) > 0 {
				open := lexer.branches[len(lexer.branches)-1].line
				return lines.Line{}, false, diag.Error(diag.UnexpectedEOF, open.Text, open.Subject())
			}
			return lines.Line{}, false, nil
		}

		if strings.HasPrefix(line.Text, "#") {
			continue
		}

		if !lexer.skipping() && strings.Contains(line.Text, "$") {
			text, diags := lexer.macros.ExpandAll(line.Text, macro.MaxLength)
			if diags.HasErrors() {
				for _, d := range diags {
					d.Subject = line.Subject()
				}
				return lines.Line{}, false, diags
			}
			line.Text = text
		}

		if strings.HasPrefix(line.Text, "!") {
			diags = lexer.directive(line)
			if diags.HasErrors() {
				return lines.Line{}, false, diags
			}
			continue
		}

		if lexer.skipping() {
			continue
		}

		return line, true, nil
	}
}

// directive handles a "!NAME argument" line
func (lexer *Lexer) directive(line lines.Line) hcl.Diagnostics {
	body := strings.TrimLeft(line.Text[1:], " \t")
	name, argument := body, ""
	if index := strings.IndexAny(body, " \t"); index >= 0 {
		name = body[:index]
		argument = body[index+1:]
	}

	switch name {
	case "ERROR":
		if lexer.skipping() {
			return nil
		}
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  diag.ForcedError,
			Detail:   argument,
			Subject:  line.Subject(),
		}}
	case "MESSAGE":
		if !lexer.skipping() {
			fmt.Fprintln(lexer.out, argument)
		}
	case "IFDEF", "IFNDEF":
		if len(lexer.branches) >= MaxIfs {
			return diag.Error(diag.TooManyIfs, line.Text, line.Subject())
		}

		fields := strings.Fields(argument)
		defined := len(fields) > 0 && lexer.macros.Defined(fields[0])
		lexer.branches = append(lexer.branches, branch{
			active: defined == (name == "IFDEF"),
			line:   line,
		})
	case "ELSE":
		if len(lexer.branches) == 0 {
			return diag.Error(diag.UnexpectedBang, line.Text, line.Subject())
		}
		top := &lexer.branches[len(lexer.branches)-1]
		top.active = !top.active
	case "ENDIF":
		if len(lexer.branches) == 0 {
			return diag.Error(diag.UnexpectedBang, line.Text, line.Subject())
		}
		lexer.branches = lexer.branches[:len(lexer.branches)-1]
	case "IF", "INCLUDE", "UNDEF":
		// recognised but not supported
	default:
		if lexer.skipping() {
			return nil
		}
		return diag.Error(diag.UnexpectedBang, line.Text, line.Subject())
	}

	return nil
}
