package engine

import (
	"io"
	"log"
	"os"
	"time"

	"dxmake/internal/expand"
	"dxmake/internal/fsys"
	"dxmake/internal/parser"
	"dxmake/internal/process"
	"dxmake/internal/state"
	"dxmake/internal/topo"

	"github.com/hashicorp/hcl/v2"
	"github.com/mitchellh/colorstring"
)

// Status is the outcome of making one target
type Status int

const (
	Failed Status = iota
	Built
	UpToDate
)

func (status Status) String() string {
	switch status {
	case Built:
		return "built"
	case UpToDate:
		return "up to date"
	}

	return "failed"
}

type Options struct {
	Flags  state.Flags
	FS     fsys.FileSystem
	Runner process.Runner
	Glob   expand.Globber
	// Stdout receives status lines, command echo and the info dump
	Stdout io.Writer
	Color  bool
}

// Engine owns the makefile tables and builds targets from them. The tables
// are filled by Load and only read afterwards.
type Engine struct {
	*parser.Tables
	Flags state.Flags
	// Files holds the source of every makefile read, for diagnostics
	Files map[string]*hcl.File

	fs     fsys.FileSystem
	runner process.Runner
	glob   expand.Globber
	stdout io.Writer

	log   *log.Logger
	debug *log.Logger
	info  *log.Logger
	echo  *log.Logger
	color *colorstring.Colorize
	trail *topo.Trail
}

func New(options Options) *Engine {
	stdout := options.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	fs := options.FS
	if fs == nil {
		fs = fsys.OS{}
	}

	runner := options.Runner
	if runner == nil {
		runner = process.Shell{Stdout: stdout, Stderr: os.Stderr}
	}

	debug, info := io.Discard, io.Discard
	if options.Flags.Debug {
		debug = stdout
	}
	if options.Flags.ShowInfo {
		info = stdout
	}

	return &Engine{
		Tables: parser.NewTables(),
		Flags:  options.Flags,
		Files:  map[string]*hcl.File{},
		fs:     fs,
		runner: runner,
		glob:   options.Glob,
		stdout: stdout,
		log:    log.New(stdout, "make:  ", 0),
		debug:  log.New(debug, "debug:  ", 0),
		info:   log.New(info, "info:  ", 0),
		echo:   log.New(stdout, "", 0),
		color: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !options.Color,
			Reset:   true,
		},
		trail: topo.NewTrail(),
	}
}

func (engine *Engine) ignore() bool {
	return engine.Flags.Ignore || engine.Tables.Ignore
}

func (engine *Engine) silent() bool {
	return engine.Flags.Silent || engine.Tables.Silent
}

// uptodate is the staleness predicate: with NeedNewer a target must be
// strictly newer than its reference, otherwise equal times are enough
func (engine *Engine) uptodate(target, reference time.Time) bool {
	if engine.Flags.NeedNewer {
		return target.After(reference)
	}

	return !target.Before(reference)
}

// warn prints message in yellow followed by the quoted, uncoloured name
func (engine *Engine) warn(message, name string) {
	engine.log.Println(engine.color.Color("[yellow]"+message+":  ") + "'" + name + "'")
}
