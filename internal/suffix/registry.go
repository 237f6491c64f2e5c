package suffix

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/lines"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/exp/slices"
)

// MaxSuffixLen is the longest suffix accepted, without its leading dot
const MaxSuffixLen = 16

// Registry holds the declared suffixes in priority order
type Registry struct {
	suffixes []string
}

func NewRegistry() *Registry {
	return &Registry{suffixes: make([]string, 0)}
}

func (registry *Registry) Add(suffix string) {
	registry.suffixes = append(registry.suffixes, strings.TrimPrefix(suffix, "."))
}

func (registry *Registry) Clear() {
	registry.suffixes = registry.suffixes[:0]
}

func (registry *Registry) Suffixes() []string {
	return slices.Clone(registry.suffixes)
}

func (registry *Registry) Len() int {
	return len(registry.suffixes)
}

// Declare handles a ".SUFFIXES" line. Every listed suffix is appended; a
// line without suffixes empties the registry.
func (registry *Registry) Declare(line lines.Line) hcl.Diagnostics {
	fields := strings.Fields(line.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], ".SUFFIXES") {
		return diag.Error(diag.Syntax, line.Text, line.Subject())
	}

	// ".SUFFIXES:" and ".SUFFIXES :" are both accepted
	args := fields[1:]
	if len(args) > 0 && args[0] == ":" {
		args = args[1:]
	}

	if len(args) == 0 {
		registry.Clear()
		return nil
	}

	for _, arg := range args {
		bare := strings.TrimPrefix(arg, ".")
		if bare == "" || len(bare) > MaxSuffixLen {
			return diag.Error(diag.BadSuffix, line.Text, line.Subject())
		}
	}

	for _, arg := range args {
		registry.Add(arg)
	}

	return nil
}

// Of returns the suffix of a filename: the text after the last '.' in its
// final path element, or "" when there is none.
func Of(filename string) string {
	index := dot(filename)
	if index < 0 {
		return ""
	}

	return filename[index+1:]
}

// Trim returns the filename without its suffix and without the dot
func Trim(filename string) string {
	index := dot(filename)
	if index < 0 {
		return filename
	}

	return filename[:index]
}

// dot finds the suffix separator. A leading dot (".profile") names the
// file rather than starting a suffix.
func dot(filename string) int {
	index := strings.LastIndexAny(filename, `./\`)
	if index <= 0 || filename[index] != '.' {
		return -1
	}

	if prev := filename[index-1]; prev == '/' || prev == '\\' {
		return -1
	}

	return index
}
