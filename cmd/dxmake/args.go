package main

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/state"

	"github.com/hashicorp/hcl/v2"
)

// Normalize rewrites make style arguments for the flag parser. Option
// letters may be combined ("-nd"), "-f" and "-w" take their value attached
// ("-fbuild.mak") or as the next argument, and options may come after
// macros and targets.
func Normalize(args []string) ([]string, hcl.Diagnostics) {
	if len(args) == 0 {
		return args, nil
	}

	flags := []string{args[0]}
	positionals := make([]string, 0)
	for index := 1; index < len(args); index++ {
		arg := args[index]
		switch {
		case arg == "--":
			positionals = append(positionals, args[index+1:]...)
			index = len(args)
		case strings.HasPrefix(arg, "--"):
			flags = append(flags, arg)
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			letters, value, diags := options(arg, args[index+1:])
			if diags.HasErrors() {
				return nil, diags
			}
			if value != nil {
				index += value.consumed
				letters = append(letters, value.text)
			}
			flags = append(flags, letters...)
		default:
			positionals = append(positionals, arg)
		}
	}

	return append(append(flags, "--"), positionals...), nil
}

type optionValue struct {
	text     string
	consumed int
}

// options splits one "-xyz" argument into single letter flags. A value
// letter ends the group; rest holds the arguments that follow in case the
// value is not attached.
func options(arg string, rest []string) ([]string, *optionValue, hcl.Diagnostics) {
	result := make([]string, 0, len(arg))
	for pos := 1; pos < len(arg); pos++ {
		letter := arg[pos]
		switch {
		case letter == '?':
			result = append(result, "--help")
		case letter == 'f' || letter == 'w':
			result = append(result, "-"+string(letter))
			if attached := arg[pos+1:]; attached != "" {
				return result, &optionValue{text: attached}, nil
			}
			if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
				return result, &optionValue{text: rest[0], consumed: 1}, nil
			}

			if letter == 'f' {
				return nil, nil, diag.Error(diag.NoMakefileName, arg, nil)
			}
			return nil, nil, diag.Error(diag.NoDirectoryName, arg, nil)
		case strings.IndexByte(state.Letters, letter) >= 0:
			result = append(result, "-"+string(letter))
		default:
			return nil, nil, diag.Error(diag.BadOption, arg[pos:], nil)
		}
	}

	return result, nil, nil
}

// Split separates "name=value" macro definitions from target names
func Split(args []string) (macros, targets []string) {
	macros, targets = make([]string, 0), make([]string, 0)
	for _, arg := range args {
		if strings.Index(arg, "=") > 0 {
			macros = append(macros, arg)
			continue
		}
		targets = append(targets, arg)
	}

	return macros, targets
}
