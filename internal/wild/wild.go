package wild

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// HasWildcard reports whether a filespec needs expansion
func HasWildcard(spec string) bool {
	return strings.ContainsAny(spec, "*?")
}

// Match reports whether name matches pattern, ignoring case. The grammar is
// '*' (any run), '?' (one character) and '[set]' / '[a-z]' classes.
func Match(pattern, name string) (bool, error) {
	return doublestar.Match(strings.ToLower(pattern), strings.ToLower(name))
}

// split separates the directory prefix (separator included) from the last
// element of a filespec
func split(spec string) (dir, base string) {
	index := strings.LastIndexAny(spec, `/\`)
	if index < 0 {
		return "", spec
	}

	return spec[:index+1], spec[index+1:]
}

// Expand lists the regular, non hidden files matching spec. Only the last
// path element may contain wildcards. Matches keep the directory prefix as
// written and are returned in directory order; an empty result is not an
// error.
//
// Matching ignores case but names are returned with their on-disk case, not
// lower-cased: on a case-sensitive filesystem a lower-cased name may not
// exist.
func Expand(spec string) ([]string, error) {
	dir, pattern := split(spec)
	readFrom := dir
	if readFrom == "" {
		readFrom = "."
	}

	entries, err := os.ReadDir(readFrom)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	matches := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		ok, err := Match(pattern, entry.Name())
		if err != nil {
			return nil, err
		}

		if ok {
			matches = append(matches, dir+entry.Name())
		}
	}

	return matches, nil
}
