package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes a single command line and reports its exit code. A
// non-zero exit code is not an error; failing to start the process is.
type Runner interface {
	Run(ctx context.Context, line string) (int, error)
}

// LaunchError is returned when a command line could not be started at all
type LaunchError struct {
	Line string
	Err  error
}

func (err *LaunchError) Error() string {
	return fmt.Sprintf("cannot run %q: %s", err.Line, err.Err)
}

func (err *LaunchError) Unwrap() error {
	return err.Err
}

// NeedsShell reports whether a line uses redirection or pipes
func NeedsShell(line string) bool {
	return strings.ContainsAny(line, "<>|")
}

// Shell runs simple command lines directly and hands everything else to
// the user's shell. Output goes to Stdout and Stderr as it is produced.
type Shell struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env replaces the process environment when not nil
	Env []string
	Dir string
}

// Terminal returns the shell used for redirection and builtins
func Terminal() string {
	terminal := "sh"
	shell, ok := os.LookupEnv("SHELL")
	if ok && shell != "" {
		terminal = shell
	}

	return terminal
}

func (runner Shell) Run(ctx context.Context, line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, nil
	}

	if NeedsShell(line) {
		return runner.exec(exec.CommandContext(ctx, Terminal(), "-c", line), line)
	}

	// programs that cannot be found may still be shell builtins
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return runner.exec(exec.CommandContext(ctx, Terminal(), "-c", line), line)
	}

	return runner.exec(exec.CommandContext(ctx, path, fields[1:]...), line)
}

func (runner Shell) exec(command *exec.Cmd, line string) (int, error) {
	command.Stdout = runner.Stdout
	command.Stderr = runner.Stderr
	command.Env = runner.Env
	command.Dir = runner.Dir
	if command.Stdout == nil {
		command.Stdout = os.Stdout
	}
	if command.Stderr == nil {
		command.Stderr = os.Stderr
	}

	err := command.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if err != nil {
		return -1, &LaunchError{Line: line, Err: err}
	}

	return 0, nil
}
