package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNeedsShell(t *testing.T) {
	for line, want := range map[string]bool{
		"cc -c foo.c":        false,
		"echo hi > out.txt":  true,
		"sort < list.txt":    true,
		"cat a.txt | wc -l":  true,
		"link /out:app.exe":  false,
	} {
		if got := NeedsShell(line); got != want {
			t.Errorf("NeedsShell(%q): expected %v but got %v", line, want, got)
		}
	}
}

func TestRunDirect(t *testing.T) {
	// arrange
	var stdout bytes.Buffer
	runner := Shell{Stdout: &stdout, Stderr: &stdout}

	// act
	code, err := runner.Run(context.Background(), "echo hello   world")

	// assert
	if err != nil {
		t.Fatal(err)
	}

	if code != 0 || strings.TrimSpace(stdout.String()) != "hello world" {
		t.Errorf("expected exit 0 with 'hello world' but got %d with %q", code, stdout.String())
	}
}

func TestRunRedirection(t *testing.T) {
	dir := t.TempDir()
	runner := Shell{Dir: dir}

	code, err := runner.Run(context.Background(), "echo built > out.txt")
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}

	if code != 0 || strings.TrimSpace(string(content)) != "built" {
		t.Errorf("expected out.txt to contain 'built' but got %q", content)
	}
}

func TestRunExitCode(t *testing.T) {
	var sink bytes.Buffer
	runner := Shell{Stdout: &sink, Stderr: &sink}

	code, err := runner.Run(context.Background(), "false")
	if err != nil {
		t.Fatal(err)
	}

	if code == 0 {
		t.Error("expected a non-zero exit code")
	}
}

func TestRunFallsBackToShell(t *testing.T) {
	var sink bytes.Buffer
	runner := Shell{Stdout: &sink, Stderr: &sink}

	code, err := runner.Run(context.Background(), "no-such-program-for-dxmake --flag")
	if err != nil {
		t.Fatal(err)
	}

	if code == 0 {
		t.Error("expected the shell to report a missing program")
	}
}

func TestRunEmptyLine(t *testing.T) {
	code, err := Shell{}.Run(context.Background(), "   ")
	if err != nil || code != 0 {
		t.Errorf("expected an empty line to succeed but got %d, %v", code, err)
	}
}
