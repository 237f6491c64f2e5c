package functional

import (
	"strings"

	"github.com/agext/levenshtein"
)

func Map[T any, U any](slice []T, f func(T) U) []U {
	result := make([]U, len(slice))
	for i, t := range slice {
		result[i] = f(t)
	}
	return result
}

// Suggest returns the target name closest to text. Case is ignored, so a
// name typed in the wrong case is suggested as written in the makefile.
// Ties go to the earliest option and nothing is suggested when every
// option is at least as far away as rewriting text entirely.
func Suggest(text string, options []string) string {
	wanted := strings.ToLower(text)
	suggestion, best := "", len(text)
	for _, option := range options {
		if option == text {
			continue
		}

		distance := levenshtein.Distance(wanted, strings.ToLower(option), nil)
		if distance < best {
			suggestion, best = option, distance
		}
	}

	return suggestion
}
