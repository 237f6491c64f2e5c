package rule

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/lines"
	"dxmake/internal/suffix"

	"github.com/hashicorp/hcl/v2"
	"golang.org/x/exp/slices"
)

// Rule is an inference recipe turning a ".Source" file into a ".Dest" file
type Rule struct {
	Source   string
	Dest     string
	Commands lines.List
	Range    hcl.Range
}

func (rule Rule) String() string {
	return "." + rule.Source + "." + rule.Dest
}

// Registry holds rules newest first, so a redefinition shadows older ones
// without removing them.
type Registry struct {
	rules []*Rule
}

func NewRegistry() *Registry {
	return &Registry{rules: make([]*Rule, 0)}
}

func (registry *Registry) Define(rule *Rule) {
	registry.rules = slices.Insert(registry.rules, 0, rule)
}

func (registry *Registry) Lookup(source, dest string) (*Rule, bool) {
	index := slices.IndexFunc(registry.rules, func(rule *Rule) bool {
		return rule.Source == source && rule.Dest == dest
	})
	if index < 0 {
		return nil, false
	}

	return registry.rules[index], true
}

// HasDest reports whether any rule produces files with the given suffix
func (registry *Registry) HasDest(dest string) bool {
	return slices.IndexFunc(registry.rules, func(rule *Rule) bool {
		return rule.Dest == dest
	}) >= 0
}

// Rules lists the rules in lookup order
func (registry *Registry) Rules() []*Rule {
	return slices.Clone(registry.rules)
}

// IsHeader reports whether text has the ".src.dest:" shape
func IsHeader(text string) bool {
	_, _, ok := split(text)
	return ok
}

// split reads dot, suffix, dot, suffix, colon from the start of text
func split(text string) (source, dest string, ok bool) {
	if !strings.HasPrefix(text, ".") {
		return "", "", false
	}

	pos := 1
	word := func() string {
		start := pos
		for pos < len(text) && !strings.ContainsRune(".: \t", rune(text[pos])) {
			pos++
		}
		return text[start:pos]
	}

	source = word()
	if pos >= len(text) || text[pos] != '.' {
		return "", "", false
	}
	pos++

	dest = word()
	if pos >= len(text) || text[pos] != ':' {
		return "", "", false
	}

	return source, dest, true
}

// ParseHeader extracts the suffix pair of a ".src.dest:" line. Text after
// the colon is ignored.
func ParseHeader(line lines.Line) (source, dest string, diags hcl.Diagnostics) {
	source, dest, ok := split(line.Text)
	if !ok || source == "" || dest == "" {
		return "", "", diag.Error(diag.RuleSyntax, line.Text, line.Subject())
	}

	if len(source) > suffix.MaxSuffixLen || len(dest) > suffix.MaxSuffixLen {
		return "", "", diag.Error(diag.SuffixTooLong, line.Text, line.Subject())
	}

	return source, dest, nil
}
