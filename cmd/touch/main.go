package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dxmake/internal/fsys"
	"dxmake/internal/wild"

	"github.com/hashicorp/hcl/v2"
	"github.com/urfave/cli/v2"
)

const usage = `DXTouch - Timestamp update utility - version 1.5

usage:  touch [options] file ...

options:
   -c       Disable file creation.
   -dDATE   Specifies date to use instead of current date, where
            DATE specifies the date in the format MMDDYY.
   -tTIME   Specifies time to use instead of current time, where
            TIME specifies the time in 24-hour HHMM format.
   -wDIR    Specifies that working directory should be changed to
            DIR instead of default directory.
`

// error summaries
const (
	CantCreate  = "Can't create"
	CantAccess  = "Can't access"
	CantTouch   = "Can't touch"
	BadTime     = "Invalid time"
	BadDate     = "Invalid date"
	BadOption   = "Unrecognized option"
	NoFiles     = "No files specified"
	NoDirectory = "'-w' requires directory name"
	ChangeDir   = "Error changing current drive/directory"
	IgnoringDir = "Ignoring directory"
)

// options that take a value
const valueOptions = "dtw"

func main() {
	err := do(os.Args, os.Stdout)
	// success, stop early
	if err == nil {
		os.Exit(0)
	}

	// did we get a diagnostic?
	if diags, ok := err.(hcl.Diagnostics); ok {
		write(os.Stdout, diags)
		os.Exit(2)
	}

	// random err
	fmt.Println(err)
	os.Exit(3)
}

// write prints diagnostics as "touch:  summary:  'detail'"
func write(out io.Writer, diags hcl.Diagnostics) {
	for _, diagnostic := range diags {
		message := "touch:  " + diagnostic.Summary
		if diagnostic.Detail != "" {
			message += ":  '" + diagnostic.Detail + "'"
		}
		fmt.Fprintln(out, message)
	}
}

func failure(summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{Severity: hcl.DiagError, Summary: summary, Detail: detail}
}

// normalize splits attached option values ("-d010292") into their own
// argument
func normalize(args []string) []string {
	result := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-?" {
			result = append(result, "--help")
			continue
		}

		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' && strings.IndexByte(valueOptions, arg[1]) >= 0 {
			result = append(result, arg[:2], arg[2:])
			continue
		}
		result = append(result, arg)
	}

	return result
}

func do(args []string, out io.Writer) error {
	return App(out).Run(normalize(args))
}

func App(out io.Writer) *cli.App {
	return &cli.App{
		Name:                  "touch",
		Usage:                 "Timestamp update utility",
		HideHelpCommand:       true,
		CustomAppHelpTemplate: usage,
		Writer:                out,
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return hcl.Diagnostics{failure(BadOption, err.Error())}
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "c", Usage: "Disable file creation"},
			&cli.StringFlag{Name: "d", Usage: "Use `DATE` (MMDDYY) instead of the current date"},
			&cli.StringFlag{Name: "t", Usage: "Use `TIME` (HHMM) instead of the current time"},
			&cli.StringFlag{Name: "w", Usage: "Change to `DIR` first"},
		},
		Action: func(c *cli.Context) error {
			at, diags := stamp(c)
			if diags.HasErrors() {
				return diags
			}

			if c.IsSet("w") {
				dir := c.String("w")
				if dir == "" {
					return hcl.Diagnostics{failure(NoDirectory, "")}
				}
				if err := os.Chdir(dir); err != nil {
					return hcl.Diagnostics{failure(ChangeDir, dir)}
				}
			}

			if c.NArg() == 0 {
				return hcl.Diagnostics{failure(NoFiles, "")}
			}

			toucher := Toucher{FS: fsys.OS{NoCreate: c.Bool("c")}, Out: out}
			diags = toucher.TouchAll(c.Args().Slice(), at)
			if diags.HasErrors() {
				return diags
			}

			return nil
		},
	}
}

func stamp(c *cli.Context) (time.Time, hcl.Diagnostics) {
	date, clock := c.String("d"), c.String("t")
	if date != "" {
		if _, _, _, err := ParseDate(date); err != nil {
			return time.Time{}, hcl.Diagnostics{failure(BadDate, date)}
		}
	}

	at, err := Stamp(time.Now(), date, clock)
	if err != nil {
		return time.Time{}, hcl.Diagnostics{failure(BadTime, clock)}
	}

	return at, nil
}

// Toucher sets file timestamps. Errors for one file do not stop the others.
type Toucher struct {
	FS  fsys.OS
	Out io.Writer
}

func (toucher Toucher) TouchAll(specs []string, at time.Time) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, spec := range specs {
		names := []string{spec}
		if wild.HasWildcard(spec) {
			matches, err := wild.Expand(spec)
			if err != nil {
				diags = append(diags, failure(CantAccess, spec))
				continue
			}
			// no match: try the name itself, which creates it if valid
			if len(matches) > 0 {
				names = matches
			}
		}

		for _, name := range names {
			diags = append(diags, toucher.touch(name, at)...)
		}
	}

	return diags
}

func (toucher Toucher) touch(name string, at time.Time) hcl.Diagnostics {
	info, err := os.Stat(name)
	switch {
	case err == nil && info.IsDir():
		fmt.Fprintln(toucher.Out, "touch:  "+IgnoringDir+":  '"+name+"'")
		return nil
	case errors.Is(err, os.ErrNotExist) && toucher.FS.NoCreate:
		return hcl.Diagnostics{failure(CantAccess, name)}
	}

	if _, err := toucher.FS.TouchAt(name, at); err != nil {
		if info == nil {
			return hcl.Diagnostics{failure(CantCreate, name)}
		}
		return hcl.Diagnostics{failure(CantTouch, name)}
	}

	return nil
}
