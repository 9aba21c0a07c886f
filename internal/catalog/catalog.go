// Package catalog holds the ordered set of branch names offered for selection.
package catalog

import (
	"strings"
)

// Placeholder is the single entry of a catalog built from no branches.
const Placeholder = "(no branches)"

// Catalog is an ordered, deduplicated, size-capped list of branch names.
// Positions are stable for the lifetime of the value and always valid
// indices for rows.
type Catalog struct {
	names       []string
	placeholder bool
}

// New builds a catalog from names in order, dropping blanks and duplicates
// and keeping at most max entries. A catalog with no usable names holds the
// Placeholder entry instead.
func New(names []string, max int) Catalog {
	seen := make(map[string]bool, len(names))
	var kept []string

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if max > 0 && len(kept) >= max {
			break
		}
		seen[name] = true
		kept = append(kept, name)
	}

	if len(kept) == 0 {
		return Catalog{names: []string{Placeholder}, placeholder: true}
	}
	return Catalog{names: kept}
}

// Len returns the number of entries, which is always at least 1.
func (c Catalog) Len() int {
	if len(c.names) == 0 {
		return 1
	}
	return len(c.names)
}

// Name returns the branch name at index, or "" when index is out of range.
func (c Catalog) Name(index int) string {
	if len(c.names) == 0 {
		if index == 0 {
			return Placeholder
		}
		return ""
	}
	if index < 0 || index >= len(c.names) {
		return ""
	}
	return c.names[index]
}

// Names returns a copy of the entries in catalog order.
func (c Catalog) Names() []string {
	if len(c.names) == 0 {
		return []string{Placeholder}
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Index returns the position of name, or -1.
func (c Catalog) Index(name string) int {
	for i, n := range c.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Valid reports whether index addresses an entry.
func (c Catalog) Valid(index int) bool {
	return index >= 0 && index < c.Len()
}

// IsPlaceholder reports whether the catalog was built from no branches.
// The zero Catalog is a placeholder catalog.
func (c Catalog) IsPlaceholder() bool {
	return c.placeholder || len(c.names) == 0
}
