// Package picker implements the incremental-search overlay used to choose
// one branch from the catalog.
package picker

import (
	"strings"

	"golang.org/x/text/cases"
)

// NoMatch is the highlight value used when no candidate matches the query.
const NoMatch = -1

// Matches reports whether name contains query, ignoring case. An empty
// query matches everything.
func Matches(name, query string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(query))
}

// Recompute returns the catalog indices whose names contain query
// (case-insensitive) in catalog order, and the highlight to use afterwards.
// The previous highlight is kept when it is still in the filtered set;
// otherwise the first filtered index is used, or NoMatch when nothing matches.
func Recompute(candidates []string, query string, previous int) (filtered []int, highlight int) {
	fold := cases.Fold()
	q := fold.String(query)

	for i, name := range candidates {
		if q == "" || strings.Contains(fold.String(name), q) {
			filtered = append(filtered, i)
		}
	}

	if len(filtered) == 0 {
		return nil, NoMatch
	}
	for _, idx := range filtered {
		if idx == previous {
			return filtered, previous
		}
	}
	return filtered, filtered[0]
}
