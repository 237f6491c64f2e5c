package lexer

import (
	"bytes"
	"strings"
	"testing"

	"dxmake/internal/diag"
	"dxmake/internal/macro"

	"github.com/google/go-cmp/cmp"
)

func readAll(t *testing.T, lexer *Lexer) []string {
	t.Helper()
	result := make([]string, 0)
	for {
		line, ok, diags := lexer.Next()
		if diags.HasErrors() {
			t.Fatal(diags)
		}
		if !ok {
			return result
		}
		result = append(result, line.Text)
	}
}

func TestContinuationAndComments(t *testing.T) {
	// arrange
	src := "# header\r\nOBJS = a.obj \\\r\n b.obj\nall: $(OBJS)\n\tlink \\\\\n\n"
	macros := macro.NewTable()
	macros.Define("OBJS", "a.obj b.obj")
	lexer := New("Makefile", []byte(src), macros, nil)

	// act
	got := readAll(t, lexer)

	// assert
	want := []string{"OBJS = a.obj  b.obj", "all: a.obj b.obj", "\tlink \\\\", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestLineRanges(t *testing.T) {
	lexer := New("Makefile", []byte("A=1\nB=2 \\\n  3\nC=4"), macro.NewTable(), nil)

	lexer.Next()
	second, _, _ := lexer.Next()
	third, _, _ := lexer.Next()

	if second.Range.Start.Line != 2 || second.Range.End.Line != 3 {
		t.Errorf("expected continued line to span lines 2-3 but got %d-%d", second.Range.Start.Line, second.Range.End.Line)
	}

	if third.Range.Start.Line != 4 || third.Range.Start.Byte != 14 {
		t.Errorf("unexpected start position %#v", third.Range.Start)
	}
}

func TestUnread(t *testing.T) {
	lexer := New("Makefile", []byte("one\ntwo\n"), macro.NewTable(), nil)

	first, _, _ := lexer.Next()
	lexer.Unread(first)
	again, _, _ := lexer.Next()
	second, _, _ := lexer.Next()

	if again.Text != "one" || second.Text != "two" {
		t.Errorf("expected 'one' then 'two' but got %q then %q", again.Text, second.Text)
	}
}

func TestConditionals(t *testing.T) {
	src := strings.Join([]string{
		"!IFDEF DEBUG",
		"CFLAGS=-g",
		"!IFNDEF FAST",
		"OPT=none",
		"!ELSE",
		"OPT=fast",
		"!ENDIF",
		"!ELSE",
		"CFLAGS=-O2 $(UNDEFINED)",
		"!ERROR not reached",
		"!ENDIF",
		"all:",
	}, "\n")

	macros := macro.NewTable()
	macros.Define("DEBUG", "1")
	got := readAll(t, New("Makefile", []byte(src), macros, nil))

	want := []string{"CFLAGS=-g", "OPT=none", "all:"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestMessageDirective(t *testing.T) {
	var out bytes.Buffer
	macros := macro.NewTable()
	macros.Define("NAME", "demo")

	readAll(t, New("Makefile", []byte("!MESSAGE building $(NAME)\n"), macros, &out))

	if out.String() != "building demo\n" {
		t.Errorf("expected message output but got %q", out.String())
	}
}

func TestDirectiveErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		summary string
	}{
		{"forced", "!ERROR stop here", diag.ForcedError},
		{"else without if", "!ELSE", diag.UnexpectedBang},
		{"endif without if", "!ENDIF", diag.UnexpectedBang},
		{"unknown", "!FROBNICATE", diag.UnexpectedBang},
		{"open if", "!IFDEF X\nA=1", diag.UnexpectedEOF},
		{"nesting", strings.Repeat("!IFNDEF X\n", MaxIfs+1), diag.TooManyIfs},
		{"undefined macro", "all: $(NOPE)", diag.NoMacro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := New("Makefile", []byte(tt.src), macro.NewTable(), nil)
			for {
				_, ok, diags := lexer.Next()
				if diags.HasErrors() {
					if diags[0].Summary != tt.summary {
						t.Errorf("expected %q but got %q", tt.summary, diags[0].Summary)
					}
					return
				}
				if !ok {
					t.Fatalf("expected %q but reached the end of input", tt.summary)
				}
			}
		})
	}
}

func TestIgnoredDirectives(t *testing.T) {
	got := readAll(t, New("Makefile", []byte("!IF 1\n!INCLUDE other.mk\n!UNDEF X\nall:\n"), macro.NewTable(), nil))

	if diff := cmp.Diff([]string{"all:"}, got); diff != "" {
		t.Errorf("unexpected lines (-want +got):\n%s", diff)
	}
}
