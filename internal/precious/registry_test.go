package precious

import (
	"testing"

	"dxmake/internal/lines"
)

func TestDeclareAndLookup(t *testing.T) {
	// arrange
	registry := NewRegistry()

	// act
	diags := registry.Declare(lines.Line{Text: ".PRECIOUS: out.bin lib/Core.lib"})

	// assert
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	for _, name := range []string{"out.bin", "OUT.BIN", "lib/core.lib"} {
		if !registry.IsPrecious(name) {
			t.Errorf("expected %q to be precious", name)
		}
	}

	if registry.IsPrecious("out.obj") {
		t.Error("expected out.obj not to be precious")
	}
}

func TestDeclareAccumulates(t *testing.T) {
	registry := NewRegistry()
	registry.Declare(lines.Line{Text: ".PRECIOUS: a"})
	registry.Declare(lines.Line{Text: ".PRECIOUS b c"})

	if got := len(registry.Names()); got != 3 {
		t.Errorf("expected 3 precious names but got %d", got)
	}
}
