package expand

import (
	"strings"

	"dxmake/internal/diag"
	"dxmake/internal/wild"

	"github.com/hashicorp/hcl/v2"
)

// Globber lists the files matching a wildcard filespec
type Globber func(spec string) ([]string, error)

// Dependents turns raw dependents text into concrete filenames. Wildcard
// tokens are replaced by their matches; a wildcard without matches is an
// error. Order and duplicates are preserved.
func Dependents(raw string, glob Globber, subject *hcl.Range) ([]string, hcl.Diagnostics) {
	if glob == nil {
		glob = wild.Expand
	}

	result := make([]string, 0)
	for _, token := range strings.Fields(raw) {
		if !wild.HasWildcard(token) {
			result = append(result, token)
			continue
		}

		matches, err := glob(token)
		if err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  diag.FileAccess,
				Detail:   token + ": " + err.Error(),
				Subject:  subject,
			}}
		}

		if len(matches) == 0 {
			return nil, diag.Error(diag.NoWildcardMatch, token, subject)
		}

		result = append(result, matches...)
	}

	return result, nil
}
