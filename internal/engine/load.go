package engine

import (
	"os"
	"path/filepath"

	"dxmake/internal/diag"
	"dxmake/internal/lexer"
	"dxmake/internal/macro"
	"dxmake/internal/parser"
	"dxmake/internal/state"

	"github.com/hashicorp/hcl/v2"
)

// Load fills the tables in the order macros may override each other:
// command line, environment, predefined macros, make.inf and then the
// makefile. With EnvOverride the environment is applied last instead.
func (engine *Engine) Load(config *state.Config) hcl.Diagnostics {
	for _, definition := range config.Macros {
		engine.info.Println("Macro defined on command line:  '" + definition + "'")
		name, value, ok := macro.ParseDefinition(definition)
		if !ok {
			return diag.Error(diag.MacroSyntax, definition, nil)
		}
		engine.Macros.Define(name, value)
	}

	if !config.Flags.EnvOverride {
		engine.Environment(config.Env)
	}

	engine.Predefine(config)

	if !config.Flags.NoDefaults {
		if filename, ok := FindDefaults(config.CWD, config.Env["PATH"]); ok {
			if diags := engine.Process(filename); diags.HasErrors() {
				return diags
			}
		}
	}

	makefile := config.Makefile
	if makefile == "" {
		makefile = state.DefaultMakefile
	}
	if diags := engine.Process(makefile); diags.HasErrors() {
		return diags
	}

	if config.Flags.EnvOverride {
		engine.Environment(config.Env)
	}

	if engine.Targets.Len() == 0 {
		return diag.Error(diag.NoTargets, makefile, nil)
	}

	return nil
}

// Environment defines a macro per environment variable
func (engine *Engine) Environment(env map[string]string) {
	for _, name := range state.EnvNames(env) {
		engine.Macros.Define(name, env[name])
	}
}

// Predefine defines MAKE, MAKEDIR and MAKEFLAGS
func (engine *Engine) Predefine(config *state.Config) {
	program := config.Program
	if program == "" {
		program = "make"
	}

	engine.Macros.Define("MAKE", program)
	engine.Macros.Define("MAKEDIR", config.CWD)
	engine.Macros.Define("MAKEFLAGS", config.Flags.MakeFlags())
}

// FindDefaults looks for the defaults file in dir and then in every
// directory of the search path
func FindDefaults(dir, path string) (string, bool) {
	dirs := append([]string{dir}, filepath.SplitList(path)...)
	for _, candidate := range dirs {
		if candidate == "" {
			continue
		}

		filename := filepath.Join(candidate, state.DefaultsFile)
		info, err := os.Stat(filename)
		if err == nil && info.Mode().IsRegular() {
			return filename, true
		}
	}

	return "", false
}

// Process reads one makefile into the tables
func (engine *Engine) Process(filename string) hcl.Diagnostics {
	src, err := os.ReadFile(filename)
	if err != nil {
		return diag.Error(diag.CantOpen, filename, nil)
	}

	return engine.Parse(filename, src)
}

// Parse reads makefile source that was loaded elsewhere
func (engine *Engine) Parse(filename string, src []byte) hcl.Diagnostics {
	engine.debug.Println("Processing make input:  " + filename)
	engine.Files[filename] = &hcl.File{Bytes: src}

	lex := lexer.New(filename, src, engine.Macros, engine.stdout)
	return parser.Parse(lex, engine.Tables)
}
