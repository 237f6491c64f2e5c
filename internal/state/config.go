package state

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	DefaultMakefile = "Makefile"
	DefaultsFile    = "make.inf"
)

// Flags are the run modes selected on the command line or by pseudo-targets
type Flags struct {
	BuildAnyway bool // a
	Signon      bool // c
	Debug       bool // d
	EnvOverride bool // e
	Ignore      bool // i
	NoSpawn     bool // n
	ShowInfo    bool // p
	Query       bool // q
	NoDefaults  bool // r
	Silent      bool // s
	Touch       bool // t
	NeedNewer   bool // y
}

// Letters are the option letters in the order they are rendered
const Letters = "acdeinpqrsty"

func (flags *Flags) field(letter rune) *bool {
	switch letter {
	case 'a':
		return &flags.BuildAnyway
	case 'c':
		return &flags.Signon
	case 'd':
		return &flags.Debug
	case 'e':
		return &flags.EnvOverride
	case 'i':
		return &flags.Ignore
	case 'n':
		return &flags.NoSpawn
	case 'p':
		return &flags.ShowInfo
	case 'q':
		return &flags.Query
	case 'r':
		return &flags.NoDefaults
	case 's':
		return &flags.Silent
	case 't':
		return &flags.Touch
	case 'y':
		return &flags.NeedNewer
	}

	return nil
}

// NewFlags builds the flags named by a string of option letters
func NewFlags(letters string) (Flags, error) {
	flags := Flags{}
	for _, letter := range letters {
		field := flags.field(letter)
		if field == nil {
			return Flags{}, fmt.Errorf("unrecognized option '%c'", letter)
		}
		*field = true
	}

	// querying never runs anything
	if flags.Query {
		flags.NoSpawn = true
	}

	if flags.Query && flags.Touch {
		return Flags{}, fmt.Errorf(`"query" and "touch" are contradictory flags`)
	}

	return flags, nil
}

// Letters renders the active flags as option letters
func (flags Flags) Letters() string {
	result := ""
	for _, letter := range Letters {
		if *flags.field(letter) {
			result += string(letter)
		}
	}

	return result
}

// MakeFlags is the value of the MAKEFLAGS macro
func (flags Flags) MakeFlags() string {
	letters := flags.Letters()
	if letters == "" {
		return ""
	}

	return "-" + letters
}

type Config struct {
	CWD      string
	Makefile string
	// Program is the name the tool was invoked with
	Program string
	Env     map[string]string
	Flags   Flags
	// Macros are the name=value definitions given on the command line
	Macros  []string
	Targets []string
}

func NewConfig(cwd string) *Config {
	program := "make"
	if len(os.Args) > 0 && os.Args[0] != "" {
		program = os.Args[0]
	}

	return &Config{
		CWD:      cwd,
		Makefile: DefaultMakefile,
		Program:  program,
		Env:      Env(),
		Macros:   make([]string, 0),
		Targets:  make([]string, 0),
	}
}

func Env() map[string]string {
	env := map[string]string{}
	for _, keyVal := range os.Environ() {
		parts := strings.SplitN(keyVal, "=", 2)
		// windows keeps per drive variables such as "=C:"
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		key, val := parts[0], parts[1]
		env[key] = val
	}

	return env
}

// EnvNames returns the environment variable names sorted
func EnvNames(env map[string]string) []string {
	names := maps.Keys(env)
	slices.Sort(names)
	return names
}

func EnvSlice(input map[string]string) []string {
	env := make([]string, 0, len(input))
	for _, k := range EnvNames(input) {
		env = append(env, k+"="+input[k])
	}

	return env
}
