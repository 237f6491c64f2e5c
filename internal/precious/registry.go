package precious

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/lines"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/exp/slices"
)

// Registry holds the files that are never deleted after a failed build
type Registry struct {
	names []string
}

func NewRegistry() *Registry {
	return &Registry{names: make([]string, 0)}
}

func (registry *Registry) Add(name string) {
	registry.names = append(registry.names, name)
}

// Declare handles a ".PRECIOUS" line; every following word is a filename
func (registry *Registry) Declare(line lines.Line) hcl.Diagnostics {
	fields := strings.Fields(line.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], ".PRECIOUS") {
		return diag.Error(diag.Syntax, line.Text, line.Subject())
	}

	args := fields[1:]
	if len(args) > 0 && args[0] == ":" {
		args = args[1:]
	}

	for _, name := range args {
		registry.Add(name)
	}

	return nil
}

// IsPrecious compares names case-insensitively
func (registry *Registry) IsPrecious(name string) bool {
	return slices.IndexFunc(registry.names, func(precious string) bool {
		return strings.EqualFold(precious, name)
	}) >= 0
}

func (registry *Registry) Names() []string {
	return slices.Clone(registry.names)
}
