package expand

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/suffix"

	"github.com/hashicorp/hcl/v2"
)

// Context holds what the special macros of a command line refer to
type Context struct {
	// Target is the file being built ($@, and $* without its suffix)
	Target string
	// Source is the file chosen by rule inference ($<); empty otherwise
	Source string
	// Dependents are all expanded dependents ($**)
	Dependents []string
	// OutOfDate are the dependents newer than the target ($?)
	OutOfDate []string
}

// special reads the name of a special macro at the start of text and
// returns it with the number of bytes it used
func special(text string) (string, int) {
	switch {
	case strings.HasPrefix(text, "**"):
		return "**", 2
	case text == "":
		return "", 0
	case strings.ContainsRune("@*<?", rune(text[0])):
		return text[:1], 1
	}

	return "", 0
}

func (ctx Context) value(name string, src string) (string, hcl.Diagnostics) {
	switch name {
	case "@":
		return ctx.Target, nil
	case "*":
		return suffix.Trim(ctx.Target), nil
	case "<":
		if ctx.Source == "" {
			return "", diag.Error(diag.LessThanNoRule, src, nil)
		}
		return ctx.Source, nil
	case "**":
		return strings.Join(ctx.Dependents, " "), nil
	case "?":
		return strings.Join(ctx.OutOfDate, " "), nil
	}

	return "", nil
}

// Expand materialises a command line: special macros in both $X and $(X)
// form are replaced, "\$" and "$$" become a literal '$'.
func (ctx Context) Expand(src string, maxLen int) (string, hcl.Diagnostics) {
	var out strings.Builder
	for pos := 0; pos < len(src); {
		if out.Len() > maxLen {
			return "", diag.Error(diag.ExpandTooLong, src, nil)
		}

		c := src[pos]
		switch {
		case c == '\\' && strings.HasPrefix(src[pos+1:], "$"):
			out.WriteByte('$')
			pos += 2
		case c == '$' && strings.HasPrefix(src[pos+1:], "$"):
			out.WriteByte('$')
			pos += 2
		case c == '$' && strings.HasPrefix(src[pos+1:], "("):
			name, size := special(src[pos+2:])
			if size == 0 {
				// not a special macro, keep it as written
				out.WriteByte(c)
				pos++
				continue
			}

			end := pos + 2 + size
			if end >= len(src) || src[end] != ')' {
				return "", diag.Error(diag.NoRightParen, src, nil)
			}

			value, diags := ctx.value(name, src)
			if diags.HasErrors() {
				return "", diags
			}
			out.WriteString(value)
			pos = end + 1
		case c == '$':
			name, size := special(src[pos+1:])
			if size == 0 {
				out.WriteByte(c)
				pos++
				continue
			}

			value, diags := ctx.value(name, src)
			if diags.HasErrors() {
				return "", diags
			}
			out.WriteString(value)
			pos += 1 + size
		default:
			out.WriteByte(c)
			pos++
		}
	}

	if out.Len() > maxLen {
		return "", diag.Error(diag.ExpandTooLong, src, nil)
	}

	return out.String(), nil
}
