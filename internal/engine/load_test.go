package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dxmake/internal/diag"
	"dxmake/internal/state"
)

func write(t *testing.T, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOrder(t *testing.T) {
	// arrange
	dir := t.TempDir()
	write(t, filepath.Join(dir, state.DefaultsFile), "CC = cl\nLINK = link\n.SUFFIXES: .c .obj\n.c.obj:\n\t$(CC) -c $<\n")
	write(t, filepath.Join(dir, "Makefile"), "CC = gcc\nall: main.obj\n")

	config := &state.Config{
		CWD:      dir,
		Makefile: filepath.Join(dir, "Makefile"),
		Program:  "dxmake",
		Env:      map[string]string{"LINK": "ld", "HOME": "/home/user"},
		Flags:    state.Flags{Silent: true},
		Macros:   []string{"CC=tcc", "DEBUG=1"},
	}
	engine := New(Options{Flags: config.Flags, Stdout: &bytes.Buffer{}})

	// act
	diags := engine.Load(config)

	// assert
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	tests := map[string]string{
		"CC":        "gcc",
		"LINK":      "link",
		"DEBUG":     "1",
		"HOME":      "/home/user",
		"MAKE":      "dxmake",
		"MAKEDIR":   dir,
		"MAKEFLAGS": "-s",
	}
	for name, want := range tests {
		if got, _ := engine.Macros.Lookup(name); got != want {
			t.Errorf("expected %s=%q but got %q", name, want, got)
		}
	}

	rule, ok := engine.Rules.Lookup("c", "obj")
	if !ok || rule.Commands.Texts()[0] != "cl -c $<" {
		t.Errorf("expected the defaults file rule to be loaded")
	}

	if len(engine.Files) != 2 {
		t.Errorf("expected both makefiles to be registered but got %d", len(engine.Files))
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "Makefile"), "LINK = link\nall:\n\techo\n")

	config := &state.Config{
		CWD:      dir,
		Makefile: filepath.Join(dir, "Makefile"),
		Env:      map[string]string{"LINK": "ld"},
		Flags:    state.Flags{EnvOverride: true, NoDefaults: true},
	}
	engine := New(Options{Flags: config.Flags, Stdout: &bytes.Buffer{}})

	if diags := engine.Load(config); diags.HasErrors() {
		t.Fatal(diags)
	}

	if got, _ := engine.Macros.Lookup("LINK"); got != "ld" {
		t.Errorf("expected the environment to win but got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "empty.mak"), "CC = cl\n")

	tests := []struct {
		makefile string
		want     string
	}{
		{"missing.mak", diag.CantOpen},
		{"empty.mak", diag.NoTargets},
	}

	for _, tt := range tests {
		config := &state.Config{
			CWD:      dir,
			Makefile: filepath.Join(dir, tt.makefile),
			Env:      map[string]string{},
			Flags:    state.Flags{NoDefaults: true},
		}
		engine := New(Options{Flags: config.Flags, Stdout: &bytes.Buffer{}})

		diags := engine.Load(config)
		if !diags.HasErrors() || diags[0].Summary != tt.want {
			t.Errorf("%s: expected %q but got %v", tt.makefile, tt.want, diags)
		}
	}
}

func TestFindDefaultsSearchesPath(t *testing.T) {
	cwd, bin := t.TempDir(), t.TempDir()
	write(t, filepath.Join(bin, state.DefaultsFile), ".SUFFIXES: .c\n")

	filename, ok := FindDefaults(cwd, string(filepath.ListSeparator)+bin)
	if !ok || filename != filepath.Join(bin, state.DefaultsFile) {
		t.Errorf("expected the defaults file in %s but got %q", bin, filename)
	}
}
