package tables

import (
	"slices"
	"strings"
)

// Normalize lowercases and trims s for table lookups.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LookupCategory resolves category against a category-keyed table. An exact
// key wins; otherwise the longest key contained in the category matches, with
// ties broken alphabetically so the result is deterministic.
func LookupCategory[V any](m map[string]V, category string) (V, string, bool) {
	c := Normalize(category)
	if v, ok := m[c]; ok {
		return v, c, true
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	for _, k := range keys {
		if k != "" && strings.Contains(c, k) {
			return m[k], k, true
		}
	}

	var zero V
	return zero, "", false
}

// ContainsAny reports whether text contains any of the keywords,
// case-insensitively, and returns the first match.
func ContainsAny(text string, keywords []string) (string, bool) {
	t := Normalize(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(t, Normalize(k)) {
			return k, true
		}
	}
	return "", false
}
