package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dxmake/internal/diag"
	"dxmake/internal/engine"
	"dxmake/internal/fsys"
	"dxmake/internal/process"
	"dxmake/internal/report"
	"dxmake/internal/state"

	"github.com/hashicorp/hcl/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const Signon = "DXMake - Script-driven build utility - version 1.5"

const usage = `
usage:  make [-fMakefile] [-wDirectory] [options] [macro=text...] [target...]

options:
   -a   Build targets even if not out of date.
   -c   Display name/version message.
   -d   Enable debug output.
   -e   Override macros with environment strings.
   -i   Ignore exit codes of commands.
   -n   Display commands without executing them.
   -p   Display macros, rules, and targets.
   -q   Query:  return 0 if targets are up-to-date, nonzero otherwise.
   -r   Don't use the default rules and macros in 'make.inf'
   -s   Suppress display of commands that are executed.
   -t   Touch all out-of-date targets without building them.
   -y   Targets must be newer than dependents to be up-to-date.

   --json                  Print macros, rules, and targets as JSON.
   --no-color              Disable colored output.
   --verbose-diagnostics   Show the makefile line of an error.
`

const (
	NoColor            = "no-color"
	JSON               = "json"
	VerboseDiagnostics = "verbose-diagnostics"
)

// errOutOfDate ends a query run that found targets to build
var errOutOfDate = errors.New("targets are not up to date")

func main() {
	log, err := do(os.Args, os.Stdout)
	// success, stop early
	if err == nil {
		os.Exit(0)
	}

	if errors.Is(err, errOutOfDate) {
		os.Exit(1)
	}

	// did we get a diagnostic?
	if diags, ok := err.(hcl.Diagnostics); ok {
		log.WriteDiagnostics(diags)
		os.Exit(2)
	}

	// random err
	fmt.Println(err)
	os.Exit(3)
}

func do(args []string, out io.Writer) (hcl.DiagnosticWriter, error) {
	log := newStopWriter(out, true)
	normalized, diags := Normalize(args)
	if diags.HasErrors() {
		return log, diags
	}

	err := App(out, log).Run(normalized)
	if err != nil {
		return log, err
	}

	return log, nil
}

func letterFlags() []cli.Flag {
	usages := map[rune]string{
		'a': "Build targets even if not out of date.",
		'c': "Display name/version message.",
		'd': "Enable debug output.",
		'e': "Override macros with environment strings.",
		'i': "Ignore exit codes of commands.",
		'n': "Display commands without executing them.",
		'p': "Display macros, rules, and targets.",
		'q': "Query: return 0 if targets are up-to-date, nonzero otherwise.",
		'r': "Don't use the default rules and macros in 'make.inf'",
		's': "Suppress display of commands that are executed.",
		't': "Touch all out-of-date targets without building them.",
		'y': "Targets must be newer than dependents to be up-to-date.",
	}

	flags := make([]cli.Flag, 0, len(usages))
	for _, letter := range state.Letters {
		flags = append(flags, &cli.BoolFlag{Name: string(letter), Usage: usages[letter]})
	}

	return flags
}

func App(out io.Writer, log *stopWriter) *cli.App {
	flags := append(letterFlags(),
		&cli.StringFlag{Name: "f", Usage: "Read `MAKEFILE` instead of " + state.DefaultMakefile},
		&cli.StringFlag{Name: "w", Usage: "Change to `DIRECTORY` before reading the makefile"},
		&cli.BoolFlag{Name: NoColor, Usage: "Disable colored output"},
		&cli.BoolFlag{Name: JSON, Usage: "Print macros, rules, and targets as JSON"},
		&cli.BoolFlag{Name: VerboseDiagnostics, Usage: "Show the makefile line of an error"},
	)

	return &cli.App{
		Name:                  "dxmake",
		Usage:                 "Script-driven build utility",
		ArgsUsage:             "[macro=text...] [target...]",
		HideHelpCommand:       true,
		CustomAppHelpTemplate: usage,
		Writer:                out,
		Flags:                 flags,
		Action: func(c *cli.Context) error {
			return build(c, out, log)
		},
	}
}

func build(c *cli.Context, out io.Writer, log *stopWriter) error {
	letters := ""
	for _, letter := range state.Letters {
		if c.Bool(string(letter)) {
			letters += string(letter)
		}
	}

	flags, err := state.NewFlags(letters)
	if err != nil {
		return diag.Error(diag.BadOption, err.Error(), nil)
	}

	color := !c.Bool(NoColor)
	*log = *newStopWriter(out, color)
	log.query = flags.Query

	if flags.Signon {
		fmt.Fprintln(out, Signon)
	}
	if flags.Debug {
		fmt.Fprintln(out, "debug:  Debugging output enabled.")
	}
	if flags.ShowInfo {
		fmt.Fprintln(out, "info:  Table information output enabled.")
	}

	if dir := c.String("w"); dir != "" {
		if err := os.Chdir(dir); err != nil {
			return diag.Error(diag.ChangeDir, dir, nil)
		}
	}

	// where are we?
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	config := state.NewConfig(cwd)
	config.Flags = flags
	if makefile := c.String("f"); makefile != "" {
		config.Makefile = makefile
	}
	config.Macros, config.Targets = Split(c.Args().Slice())

	builder := engine.New(engine.Options{
		Flags:  flags,
		FS:     fsys.OS{},
		Runner: shell(out, config),
		Stdout: out,
		Color:  color,
	})
	if c.Bool(VerboseDiagnostics) {
		log.source = hcl.NewDiagnosticTextWriter(out, builder.Files, 78, color)
	}

	if diags := builder.Load(config); diags.HasErrors() {
		return diags
	}

	if c.Bool(JSON) {
		data, err := report.New(builder.Tables).JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if flags.ShowInfo {
		report.New(builder.Tables).Write(out)
	}

	outdated, err := run(c.Context, builder, config.Targets)
	if err != nil {
		return err
	}

	if flags.Query && outdated > 0 {
		return errOutOfDate
	}

	return nil
}

// shell runs commands in the working directory with the environment the
// build started from
func shell(out io.Writer, config *state.Config) process.Shell {
	return process.Shell{
		Stdout: out,
		Stderr: os.Stderr,
		Env:    state.EnvSlice(config.Env),
		Dir:    config.CWD,
	}
}

// run builds targets while watching for interrupts. An interrupt cancels
// the build, which then stops before the next command.
func run(ctx context.Context, builder *engine.Engine, targets []string) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	outdated := 0
	group.Go(func() error {
		defer cancel()
		count, diags := builder.Build(ctx, targets)
		outdated = count
		if diags.HasErrors() {
			return diags
		}
		return nil
	})

	return outdated, group.Wait()
}
