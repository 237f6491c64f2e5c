package engine

import (
	"context"
	"strings"
	"time"

	"dxmake/internal/diag"
	"dxmake/internal/expand"
	"dxmake/internal/functional"
	"dxmake/internal/lines"
	"dxmake/internal/rule"
	"dxmake/internal/suffix"
	"dxmake/internal/target"

	"github.com/hashicorp/hcl/v2"
)

// Build makes every name in order, or the default target when names is
// empty. It returns how many targets were not already up to date.
func (engine *Engine) Build(ctx context.Context, names []string) (int, hcl.Diagnostics) {
	if len(names) == 0 {
		name, ok := engine.Targets.Default()
		if !ok {
			return 0, diag.Error(diag.NoTargets, "", nil)
		}
		names = []string{name}
	}

	outdated := 0
	for _, name := range names {
		engine.info.Println("Target listed on command line:  '" + name + "'")
		status, _, diags := engine.MakeTarget(ctx, name, 0)
		if diags.HasErrors() {
			return outdated, diags
		}

		if status == UpToDate {
			engine.log.Println(engine.color.Color("[green]Target already up to date:  ") + "'" + name + "'")
			continue
		}
		outdated++
	}

	return outdated, nil
}

// MakeTarget brings name up to date. The returned time is the one parents
// compare against: the file's modification time, or the newest dependent
// for a dummy target.
func (engine *Engine) MakeTarget(ctx context.Context, name string, level int) (Status, time.Time, hcl.Diagnostics) {
	if ctx.Err() != nil {
		return UpToDate, time.Time{}, nil
	}

	indent := strings.Repeat("  ", level)
	engine.debug.Println(indent + "Want to make:  " + name)

	exists, mtime, diags := engine.stat(name, nil)
	if diags.HasErrors() {
		return Failed, time.Time{}, diags
	}

	desc, described := engine.Targets.Find(name)
	if !described {
		return engine.makeUndescribed(ctx, name, exists, mtime, indent)
	}

	return engine.makeDescribed(ctx, desc, exists, mtime, level)
}

func (engine *Engine) stat(name string, subject *hcl.Range) (bool, time.Time, hcl.Diagnostics) {
	exists, mtime, err := engine.fs.Stat(name)
	if err != nil {
		return false, time.Time{}, diag.Error(diag.FileAccess, name+": "+err.Error(), subject)
	}

	return exists, mtime, nil
}

// cantMake reports name as unbuildable, suggesting the closest target
func (engine *Engine) cantMake(name string, subject *hcl.Range) hcl.Diagnostics {
	diags := diag.Error(diag.CantMake, name, subject)
	return diag.Suggest(diags, functional.Suggest(name, engine.Targets.Names()))
}

func (engine *Engine) makeUndescribed(ctx context.Context, name string, exists bool, mtime time.Time, indent string) (Status, time.Time, hcl.Diagnostics) {
	if suffix.Of(name) == "" {
		if exists {
			engine.debug.Println(indent + "Undescribed target exists:  " + name)
			return UpToDate, mtime, nil
		}
		return Failed, time.Time{}, engine.cantMake(name, nil)
	}

	found, diags := engine.infer(name, indent)
	if diags.HasErrors() {
		return Failed, time.Time{}, diags
	}

	if found == nil {
		if exists {
			engine.debug.Println(indent + "Undescribed target exists:  " + name)
			return UpToDate, mtime, nil
		}
		return Failed, time.Time{}, engine.cantMake(name, nil)
	}

	if !engine.Flags.BuildAnyway && exists && engine.uptodate(mtime, found.time) {
		engine.debug.Println(indent + "Target is up to date with dependent:  " + found.source)
		return UpToDate, mtime, nil
	}

	job := job{
		name:     name,
		exists:   exists,
		warn:     true,
		rule:     found.rule,
		commands: found.rule.Commands,
		context:  expand.Context{Target: name, Source: found.source},
	}
	return engine.apply(ctx, job, indent)
}

func (engine *Engine) makeDescribed(ctx context.Context, desc *target.Target, exists bool, mtime time.Time, level int) (Status, time.Time, hcl.Diagnostics) {
	name := desc.Name
	indent := strings.Repeat("  ", level)
	subject := desc.Range.Ptr()
	if desc.Range.Filename == "" {
		subject = nil
	}

	dependents := make([]string, 0)
	outdated := make([]string, 0)
	var newest time.Time
	if desc.HasDependents {
		engine.debug.Println(indent + "Checking dependents for:  " + name)
		if diags := engine.trail.Enter(name, subject); diags.HasErrors() {
			return Failed, time.Time{}, diags
		}
		defer engine.trail.Leave(name)

		var diags hcl.Diagnostics
		dependents, diags = expand.Dependents(desc.Dependents, engine.glob, subject)
		if diags.HasErrors() {
			return Failed, time.Time{}, diags
		}

		for _, dependent := range dependents {
			engine.debug.Println(indent + "  Dependent:  " + dependent)
			status, depTime, diags := engine.MakeTarget(ctx, dependent, level+1)
			if diags.HasErrors() || status == Failed {
				return Failed, time.Time{}, diags
			}

			if depTime.After(newest) {
				newest = depTime
			}
			if !exists || !engine.uptodate(mtime, depTime) {
				outdated = append(outdated, dependent)
			}
		}
	}

	if ctx.Err() != nil {
		return UpToDate, mtime, nil
	}

	specials := expand.Context{Target: name, Dependents: dependents, OutOfDate: outdated}
	if !desc.Commands.Empty() {
		if !engine.Flags.BuildAnyway && exists && engine.uptodate(mtime, newest) {
			engine.debug.Println(indent + "Target is up to date:  " + name)
			return UpToDate, mtime, nil
		}

		// names without an extension are usually dummy targets like "clean"
		job := job{
			name:     name,
			exists:   exists,
			warn:     strings.Index(name, ".") > 0,
			commands: desc.Commands,
			context:  specials,
			newest:   newest,
		}
		return engine.apply(ctx, job, indent)
	}

	if suffix.Of(name) == "" {
		switch {
		case exists:
			return Built, mtime, nil
		case desc.HasDependents:
			engine.debug.Println(indent + "Assuming target is dummy:  " + name)
			return Built, newest, nil
		}
		return Failed, time.Time{}, engine.cantMake(name, subject)
	}

	found, diags := engine.infer(name, indent)
	if diags.HasErrors() {
		return Failed, time.Time{}, diags
	}

	if found == nil {
		if exists {
			return Built, mtime, nil
		}
		return Failed, time.Time{}, engine.cantMake(name, subject)
	}

	if !engine.Flags.BuildAnyway && exists && engine.uptodate(mtime, found.time) && engine.uptodate(mtime, newest) {
		engine.debug.Println(indent + "Target is up to date:  " + name)
		return UpToDate, mtime, nil
	}

	specials.Source = found.source
	job := job{
		name:     name,
		exists:   exists,
		warn:     true,
		rule:     found.rule,
		commands: found.rule.Commands,
		context:  specials,
		newest:   newest,
	}
	return engine.apply(ctx, job, indent)
}

// inference is the rule and source file chosen for a target
type inference struct {
	rule   *rule.Rule
	source string
	time   time.Time
}

// infer looks for a rule producing name's suffix whose source file exists.
// Suffixes are tried in declaration order. A nil result without
// diagnostics means no rule applies.
func (engine *Engine) infer(name, indent string) (*inference, hcl.Diagnostics) {
	dest := suffix.Of(name)
	if dest == "" || !engine.Rules.HasDest(dest) {
		return nil, nil
	}

	base := suffix.Trim(name)
	for _, candidate := range engine.Suffixes.Suffixes() {
		if candidate == dest {
			continue
		}

		found, ok := engine.Rules.Lookup(candidate, dest)
		if !ok {
			continue
		}
		engine.debug.Println(indent + "  Possible rule:  " + found.String())

		source := base + "." + candidate
		exists, mtime, diags := engine.stat(source, nil)
		if diags.HasErrors() {
			return nil, diags
		}

		if exists {
			engine.debug.Println(indent + "  Matching file:  " + source)
			return &inference{rule: found, source: source, time: mtime}, nil
		}
	}

	return nil, nil
}

// job is a target that needs its commands run
type job struct {
	name     string
	exists   bool
	warn     bool
	rule     *rule.Rule
	commands lines.List
	context  expand.Context
	// newest is reported when the commands did not produce the file
	newest time.Time
}

// apply touches or rebuilds the target of a job
func (engine *Engine) apply(ctx context.Context, job job, indent string) (Status, time.Time, hcl.Diagnostics) {
	if !job.exists && job.warn {
		engine.warn("Warning, target does not exist", job.name)
	}

	engine.debug.Println(indent + "Building:  " + job.name)
	if engine.Flags.Touch {
		mtime, err := engine.fs.Touch(job.name)
		if err != nil {
			return Failed, time.Time{}, diag.Error(diag.FileAccess, job.name+": "+err.Error(), nil)
		}
		return Built, mtime, nil
	}

	if job.rule != nil && job.commands.Empty() {
		return Failed, time.Time{}, diag.Error(diag.EmptyRule, job.rule.String(), job.rule.Range.Ptr())
	}

	aborted, diags := engine.runCommands(ctx, job.name, job.commands, job.context)
	if diags.HasErrors() {
		return Failed, time.Time{}, diags
	}
	if aborted {
		return UpToDate, time.Time{}, nil
	}

	exists, mtime, diags := engine.stat(job.name, nil)
	if diags.HasErrors() {
		return Failed, time.Time{}, diags
	}
	if !exists {
		return Built, job.newest, nil
	}

	return Built, mtime, nil
}
