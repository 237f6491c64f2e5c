package target

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/lines"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/exp/slices"
)

// Target describes how to build one file. Dependents holds the raw
// dependents text; HasDependents is false when the line had none.
type Target struct {
	Name          string
	Dependents    string
	HasDependents bool
	Commands      lines.List
	Range         hcl.Range
}

// Copy returns the same description under another name. The copy shares
// nothing with the original.
func (target Target) Copy(name string) *Target {
	return &Target{
		Name:          name,
		Dependents:    target.Dependents,
		HasDependents: target.HasDependents,
		Commands:      target.Commands.Clone(),
		Range:         target.Range,
	}
}

// Registry maps names to descriptors and remembers definition order; the
// first target defined is the default one.
type Registry struct {
	targets map[string]*Target
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		targets: map[string]*Target{},
		order:   make([]string, 0),
	}
}

func (registry *Registry) Define(target *Target) hcl.Diagnostics {
	if _, found := registry.targets[target.Name]; found {
		var subject *hcl.Range
		if target.Range.Filename != "" {
			subject = target.Range.Ptr()
		}
		return diag.Error(diag.SameTarget, target.Name, subject)
	}

	registry.targets[target.Name] = target
	registry.order = append(registry.order, target.Name)
	return nil
}

func (registry *Registry) Find(name string) (*Target, bool) {
	target, ok := registry.targets[name]
	return target, ok
}

func (registry *Registry) Default() (string, bool) {
	if len(registry.order) == 0 {
		return "", false
	}

	return registry.order[0], true
}

// Names lists target names in definition order
func (registry *Registry) Names() []string {
	return slices.Clone(registry.order)
}

// Targets lists the descriptors in definition order
func (registry *Registry) Targets() []*Target {
	result := make([]*Target, len(registry.order))
	for index, name := range registry.order {
		result[index] = registry.targets[name]
	}

	return result
}

func (registry *Registry) Len() int {
	return len(registry.order)
}

// isSeparator reports whether the colon at index ends the name list. A
// colon followed by a backslash belongs to a drive letter (c:\dir).
func isSeparator(text string, index int) bool {
	return text[index] == ':' && (index+1 >= len(text) || text[index+1] != '\\')
}

// ParseHeader splits a "name[,name...]: [dependents]" line into the target
// names and the raw dependents text.
func ParseHeader(line lines.Line) (names []string, dependents string, diags hcl.Diagnostics) {
	text := line.Text
	names = make([]string, 0)
	pos := 0
	for pos < len(text) && !isSeparator(text, pos) {
		start := pos
		for pos < len(text) && !strings.ContainsRune(" \t,", rune(text[pos])) && !isSeparator(text, pos) {
			pos++
		}

		if pos > start {
			names = append(names, text[start:pos])
		}

		for pos < len(text) && strings.ContainsRune(" \t,", rune(text[pos])) {
			pos++
		}
	}

	if len(names) == 0 || pos >= len(text) {
		return nil, "", diag.Error(diag.TargetSyntax, text, line.Subject())
	}

	return names, strings.TrimSpace(text[pos+1:]), nil
}
