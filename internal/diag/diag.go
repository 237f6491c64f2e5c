package diag

import (
	"github.com/hashicorp/hcl/v2"
)

// error summaries
const (
	BadOption       = "Unrecognized option"
	NoMakefileName  = "'-f' requires filename"
	NoDirectoryName = "'-w' requires directory name"
	ChangeDir       = "Error changing current drive/directory"
	EnvSyntax       = "Error in environment string"
	NoTargets       = "No targets defined in makefile"
	BadSuffix       = "Invalid suffix in suffix list"
	ReadFailure     = "Read failure in input file"
	NoMacro         = "Macro not defined"
	NoRightParen    = "Missing right parenthesis ')'"
	NoWildcardMatch = "Wildcard dependent has no match"
	SymbolTooLong   = "Token for macro name exceeds maximum length"
	LineTooLong     = "Input line exceeds maximum length"
	LessThanNoRule  = "'$<' can only be used in inference rules"
	NoBang          = "'!' not supported"
	ExecFailed      = "Exec failed"
	ReturnCode      = "Non-zero return code"
	FileAccess      = "Error accessing file"
	CantMake        = "Don't know how to make"
	EmptyRule       = "No commands specified in rule"
	SuffixTooLong   = "Suffix too long"
	BadPseudo       = "Unrecognized psuedo-target"
	CantOpen        = "Can't open file"
	Syntax          = "Syntax error"
	MacroSyntax     = "Syntax error in macro definition"
	UnexpectedEOF   = "Unexpected end of input file"
	RuleSyntax      = "Syntax error in rule definition"
	TargetSyntax    = "Syntax error in target definition"
	SameTarget      = "Target defined more than once"
	ExpandTooLong   = "Macro expansion causes string to exceed maximum allowable length"
	UnexpectedBang  = "Unexpected directive"
	TooManyIfs      = "!IFs nested too deeply"
	ForcedError     = "Error directive"
	Cycle           = "cyclical dependency detected"
)

// Error builds a single error diagnostic
func Error(summary, detail string, subject *hcl.Range) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  subject,
	}}
}

// DidYouMean is the summary of the warning that follows an error when a
// known name is close to the one that was asked for
const DidYouMean = "Did you mean"

// Suggest appends a DidYouMean warning naming suggestion to diags
func Suggest(diags hcl.Diagnostics, suggestion string) hcl.Diagnostics {
	if suggestion == "" {
		return diags
	}

	return append(diags, &hcl.Diagnostic{
		Severity: hcl.DiagWarning,
		Summary:  DidYouMean,
		Detail:   suggestion,
	})
}

// Suggested returns the name carried by a DidYouMean warning
func Suggested(diagnostic *hcl.Diagnostic) (string, bool) {
	if diagnostic.Severity != hcl.DiagWarning || diagnostic.Summary != DidYouMean {
		return "", false
	}

	return diagnostic.Detail, diagnostic.Detail != ""
}
