package target

import (
	"testing"

	"dxmake/internal/diag"
	"dxmake/internal/lines"

	"github.com/google/go-cmp/cmp"
)

func TestDefineRejectsDuplicates(t *testing.T) {
	// arrange
	registry := NewRegistry()
	diags := registry.Define(&Target{Name: "all"})
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	// act
	diags = registry.Define(&Target{Name: "all", Range: lines.At("Makefile", 9, "all:")})

	// assert
	if !diags.HasErrors() || diags[0].Summary != diag.SameTarget {
		t.Fatalf("expected %q but got %v", diag.SameTarget, diags)
	}

	if diags[0].Subject == nil || diags[0].Subject.Start.Line != 9 {
		t.Errorf("expected the second definition to be reported")
	}
}

func TestDefaultIsFirstDefined(t *testing.T) {
	registry := NewRegistry()
	if _, ok := registry.Default(); ok {
		t.Fatal("expected no default target on an empty registry")
	}

	for _, name := range []string{"all", "clean", "install"} {
		registry.Define(&Target{Name: name})
	}

	name, ok := registry.Default()
	if !ok || name != "all" {
		t.Errorf("expected 'all' but got %q", name)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	original := &Target{
		Name:          "a.exe",
		Dependents:    "a.obj",
		HasDependents: true,
		Commands:      lines.FromStrings("link a.obj"),
	}

	copied := original.Copy("b.exe")
	copied.Commands.AppendText("strip b.exe")

	if original.Commands.Len() != 1 {
		t.Errorf("expected original commands to be untouched")
	}

	if copied.Name != "b.exe" || copied.Dependents != "a.obj" || !copied.HasDependents {
		t.Errorf("unexpected copy %#v", copied)
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		text       string
		names      []string
		dependents string
		fails      bool
	}{
		{"all: a.obj b.obj", []string{"all"}, "a.obj b.obj", false},
		{"a.exe b.exe: common.obj", []string{"a.exe", "b.exe"}, "common.obj", false},
		{"a.exe,b.exe : x.obj", []string{"a.exe", "b.exe"}, "x.obj", false},
		{"clean:", []string{"clean"}, "", false},
		{`c:\out\app.exe: c:\src\app.obj`, []string{`c:\out\app.exe`}, `c:\src\app.obj`, false},
		{"missing colon", nil, "", true},
		{": nothing", nil, "", true},
	}

	for _, tt := range tests {
		names, dependents, diags := ParseHeader(lines.Line{Text: tt.text})
		if tt.fails {
			if !diags.HasErrors() || diags[0].Summary != diag.TargetSyntax {
				t.Errorf("%q: expected %q but got %v", tt.text, diag.TargetSyntax, diags)
			}
			continue
		}

		if diags.HasErrors() {
			t.Errorf("%q: %v", tt.text, diags)
			continue
		}

		if diff := cmp.Diff(tt.names, names); diff != "" {
			t.Errorf("%q: unexpected names (-want +got):\n%s", tt.text, diff)
		}

		if dependents != tt.dependents {
			t.Errorf("%q: expected dependents %q but got %q", tt.text, tt.dependents, dependents)
		}
	}
}
