package topo

import (
	"strings"

	"dxmake/internal/diag"

	"github.com/hashicorp/hcl/v2"
)

type mark int

const (
	unmarked mark = iota
	temporary
)

// Trail tracks the targets on the current depth first path. A target is
// marked while its dependents are visited and unmarked afterwards, so the
// same target may be visited again from a sibling branch but never from
// one of its own dependents.
type Trail struct {
	markers map[string]mark
	path    []string
}

func NewTrail() *Trail {
	return &Trail{
		markers: map[string]mark{},
		path:    make([]string, 0),
	}
}

// Enter marks name as being visited
func (trail *Trail) Enter(name string, subject *hcl.Range) hcl.Diagnostics {
	if trail.markers[name] == temporary {
		return diag.Error(diag.Cycle, strings.Join(append(trail.cycle(name), name), " -> "), subject)
	}

	trail.markers[name] = temporary
	trail.path = append(trail.path, name)
	return nil
}

// Leave unmarks the most recently entered name
func (trail *Trail) Leave(name string) {
	delete(trail.markers, name)
	if len(trail.path) > 0 && trail.path[len(trail.path)-1] == name {
		trail.path = trail.path[:len(trail.path)-1]
	}
}

// cycle returns the part of the path starting at name
func (trail *Trail) cycle(name string) []string {
	for index, step := range trail.path {
		if step == name {
			return append([]string{}, trail.path[index:]...)
		}
	}

	return []string{}
}
