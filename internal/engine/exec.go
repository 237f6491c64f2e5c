package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/expand"
	"dxmake/internal/lines"
	"dxmake/internal/macro"
	"dxmake/internal/process"

	"github.com/hashicorp/hcl/v2"
)

// runCommands materialises and runs the commands that build name. When a
// command fails the target file is removed unless it is precious. aborted
// is true when ctx was cancelled before all commands ran.
func (engine *Engine) runCommands(ctx context.Context, name string, commands lines.List, specials expand.Context) (aborted bool, diags hcl.Diagnostics) {
	for _, command := range commands.Items() {
		if ctx.Err() != nil {
			return true, nil
		}

		text, diags := specials.Expand(command.Text, macro.MaxLength)
		if diags.HasErrors() {
			for _, d := range diags {
				d.Subject = command.Subject()
			}
			return false, diags
		}

		diags = engine.runCommand(ctx, text, command.Subject())
		if ctx.Err() != nil {
			return true, nil
		}

		if diags.HasErrors() {
			if !engine.Precious.IsPrecious(name) {
				if err := engine.fs.Remove(name); err != nil {
					engine.warn("Warning, could not remove target", name)
				}
			}
			return false, diags
		}
	}

	return false, nil
}

// runCommand runs one expanded command line. A leading '@' turns off the
// echo and a leading '-' ignores the exit code.
func (engine *Engine) runCommand(ctx context.Context, text string, subject *hcl.Range) hcl.Diagnostics {
	if strings.HasPrefix(text, "!") {
		return diag.Error(diag.NoBang, text, subject)
	}

	silent, ignore := engine.silent(), engine.ignore()
	for len(text) > 0 && (text[0] == '@' || text[0] == '-') {
		if text[0] == '@' {
			silent = true
		} else {
			ignore = true
		}
		text = text[1:]
	}

	if !silent {
		engine.echo.Println(text)
	}

	if engine.Flags.NoSpawn {
		return nil
	}

	code, err := engine.runner.Run(ctx, text)
	if ignore {
		return nil
	}

	var launch *process.LaunchError
	switch {
	case errors.As(err, &launch):
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  diag.ExecFailed,
			Detail:   fmt.Sprintf("%s: %s", text, launch.Err),
			Subject:  subject,
		}}
	case err != nil:
		return diag.Error(diag.ExecFailed, text+": "+err.Error(), subject)
	case code != 0:
		return diag.Error(fmt.Sprintf("%s (%d)", diag.ReturnCode, code), text, subject)
	}

	return nil
}
