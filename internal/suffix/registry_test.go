package suffix

import (
	"testing"

	"dxmake/internal/diag"
	"dxmake/internal/lines"

	"github.com/google/go-cmp/cmp"
)

func TestDeclare(t *testing.T) {
	// arrange
	registry := NewRegistry()

	// act
	diags := registry.Declare(lines.Line{Text: ".SUFFIXES: .c .obj"})
	diags = append(diags, registry.Declare(lines.Line{Text: ".SUFFIXES: asm"})...)

	// assert
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	if diff := cmp.Diff([]string{"c", "obj", "asm"}, registry.Suffixes()); diff != "" {
		t.Errorf("unexpected suffixes (-want +got):\n%s", diff)
	}
}

func TestEmptyDeclarationClears(t *testing.T) {
	registry := NewRegistry()
	registry.Add(".c")
	registry.Add("obj")

	diags := registry.Declare(lines.Line{Text: ".SUFFIXES:"})
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	if registry.Len() != 0 {
		t.Errorf("expected an empty registry but got %v", registry.Suffixes())
	}
}

func TestInvalidSuffixLeavesRegistryUntouched(t *testing.T) {
	registry := NewRegistry()
	registry.Add("c")

	diags := registry.Declare(lines.Line{Text: ".SUFFIXES: .obj . .exe"})
	if !diags.HasErrors() || diags[0].Summary != diag.BadSuffix {
		t.Fatalf("expected %q but got %v", diag.BadSuffix, diags)
	}

	if diff := cmp.Diff([]string{"c"}, registry.Suffixes()); diff != "" {
		t.Errorf("unexpected suffixes (-want +got):\n%s", diff)
	}
}

func TestOfAndTrim(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		base   string
	}{
		{"foo.obj", "obj", "foo"},
		{"src/foo.c", "c", "src/foo"},
		{"archive.tar.gz", "gz", "archive.tar"},
		{"all", "", "all"},
		{".profile", "", ".profile"},
		{"dir.d/file", "", "dir.d/file"},
		{`c:\work.d\main`, "", `c:\work.d\main`},
		{"home/.rc", "", "home/.rc"},
	}

	for _, tt := range tests {
		if got := Of(tt.name); got != tt.suffix {
			t.Errorf("Of(%q): expected %q but got %q", tt.name, tt.suffix, got)
		}

		if got := Trim(tt.name); got != tt.base {
			t.Errorf("Trim(%q): expected %q but got %q", tt.name, tt.base, got)
		}
	}
}
