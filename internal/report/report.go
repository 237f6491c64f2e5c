package report

import (
	"io"
	"log"
	"strings"

	"dxmake/internal/functional"
	"dxmake/internal/parser"
	"dxmake/internal/rule"
	"dxmake/internal/target"
	"dxmake/internal/values"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

type Macro struct {
	Name  string
	Value string
}

func (macro Macro) CTY() cty.Value {
	value, err := values.Object(macro)
	if err != nil {
		panic(err) // plain strings always convert
	}
	return value
}

type Rule struct {
	Name     string
	Source   string
	Dest     string
	Commands []string
}

func (rule Rule) CTY() cty.Value {
	value, err := values.Object(rule)
	if err != nil {
		panic(err)
	}
	return value
}

type Target struct {
	Name       string
	Dependents []string
	Commands   []string
}

func (target Target) CTY() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"name":       cty.StringVal(target.Name),
		"dependents": values.Strings(target.Dependents),
		"commands":   values.Strings(target.Commands),
	})
}

// Report is a snapshot of the makefile tables after loading
type Report struct {
	Macros   []Macro
	Precious []string
	Suffixes []string
	Rules    []Rule
	Targets  []Target
}

func New(tables *parser.Tables) *Report {
	macros := make([]Macro, 0, tables.Macros.Len())
	for _, macro := range tables.Macros.Macros() {
		macros = append(macros, Macro{Name: macro.Name, Value: macro.Value})
	}

	return &Report{
		Macros:   macros,
		Precious: tables.Precious.Names(),
		Suffixes: tables.Suffixes.Suffixes(),
		Rules: functional.Map(tables.Rules.Rules(), func(r *rule.Rule) Rule {
			return Rule{
				Name:     r.String(),
				Source:   r.Source,
				Dest:     r.Dest,
				Commands: r.Commands.Texts(),
			}
		}),
		Targets: functional.Map(tables.Targets.Targets(), func(t *target.Target) Target {
			return Target{
				Name:       t.Name,
				Dependents: strings.Fields(t.Dependents),
				Commands:   t.Commands.Texts(),
			}
		}),
	}
}

func (report Report) CTY() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"macros":   values.Tuple(report.Macros),
		"precious": values.Strings(report.Precious),
		"suffixes": values.Strings(report.Suffixes),
		"rules":    values.Tuple(report.Rules),
		"targets":  values.Tuple(report.Targets),
	})
}

// JSON renders the report through its cty form
func (report Report) JSON() ([]byte, error) {
	value := report.CTY()
	return ctyjson.Marshal(value, value.Type())
}

// Write prints the report the way the -p option shows it
func (report Report) Write(w io.Writer) {
	info := log.New(w, "info:  ", 0)

	if len(report.Macros) == 0 {
		info.Println("Macro list is empty.")
	}
	for _, macro := range report.Macros {
		info.Println("Macro:  " + macro.Name)
		info.Println("      = " + macro.Value)
	}

	info.Println("PRECIOUS filenames:")
	list(info, report.Precious, "")

	info.Println("SUFFIXES:")
	list(info, report.Suffixes, ".")

	if len(report.Rules) == 0 {
		info.Println("Rule list is empty.")
	}
	for _, rule := range report.Rules {
		info.Println("Rule:  " + rule.Name)
		for _, command := range rule.Commands {
			info.Println("    " + command)
		}
	}

	if len(report.Targets) == 0 {
		info.Println("Target list is empty.")
	}
	for _, target := range report.Targets {
		info.Println("Target:  " + target.Name)
		if len(target.Dependents) > 0 {
			info.Println("   Dependents:")
			for _, dependent := range target.Dependents {
				info.Println("      " + dependent)
			}
		}
		if len(target.Commands) > 0 {
			info.Println("   Commands:")
			for _, command := range target.Commands {
				info.Println("      " + command)
			}
		}
	}
}

func list(info *log.Logger, items []string, prefix string) {
	if len(items) == 0 {
		info.Println("  <none>")
	}
	for _, item := range items {
		info.Println("  " + prefix + item)
	}
}
