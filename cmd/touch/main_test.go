package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dxmake/internal/fsys"

	"github.com/hashicorp/hcl/v2"
)

func TestNormalize(t *testing.T) {
	got := normalize([]string{"touch", "-c", "-d010292", "-t", "1200", "-?", "a.c"})
	want := []string{"touch", "-c", "-d", "010292", "-t", "1200", "--help", "a.c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v but got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v but got %v", want, got)
		}
	}
}

func TestTouchAll(t *testing.T) {
	// arrange
	dir := t.TempDir()
	for _, name := range []string{"a.c", "b.c", "c.h"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o666); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o777); err != nil {
		t.Fatal(err)
	}
	at := time.Date(1992, time.January, 2, 12, 0, 0, 0, time.Local)
	var out bytes.Buffer
	toucher := Toucher{FS: fsys.OS{}, Out: &out}

	// act
	diags := toucher.TouchAll([]string{filepath.Join(dir, "*.c"), filepath.Join(dir, "sub"), filepath.Join(dir, "new.o")}, at)

	// assert
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	for _, name := range []string{"a.c", "b.c", "new.o"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !info.ModTime().Equal(at) {
			t.Errorf("expected %s to be touched at %v but got %v", name, at, info.ModTime())
		}
	}

	info, err := os.Stat(filepath.Join(dir, "c.h"))
	if err != nil {
		t.Fatal(err)
	}
	if info.ModTime().Equal(at) {
		t.Errorf("expected c.h to be left alone")
	}

	if !bytes.Contains(out.Bytes(), []byte(IgnoringDir)) {
		t.Errorf("expected directory warning but got %q", out.String())
	}
}

func TestTouchNoCreate(t *testing.T) {
	// arrange
	dir := t.TempDir()
	toucher := Toucher{FS: fsys.OS{NoCreate: true}, Out: &bytes.Buffer{}}
	missing := filepath.Join(dir, "missing.o")

	// act
	diags := toucher.TouchAll([]string{missing}, time.Now())

	// assert
	if len(diags) != 1 || diags[0].Summary != CantAccess {
		t.Fatalf("expected %q but got %v", CantAccess, diags)
	}

	if _, err := os.Stat(missing); err == nil {
		t.Errorf("expected %s to not be created", missing)
	}
}

func TestDoErrors(t *testing.T) {
	tests := map[string]struct {
		args    []string
		summary string
	}{
		"no files": {[]string{"touch", "-c"}, NoFiles},
		"bad date": {[]string{"touch", "-d133192", "a"}, BadDate},
		"bad time": {[]string{"touch", "-t2500", "a"}, BadTime},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := do(test.args, &bytes.Buffer{})
			diags, ok := err.(hcl.Diagnostics)
			if !ok || len(diags) != 1 {
				t.Fatalf("expected one diagnostic but got %v", err)
			}
			if diags[0].Summary != test.summary {
				t.Errorf("expected %q but got %q", test.summary, diags[0].Summary)
			}
		})
	}
}
