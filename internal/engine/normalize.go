package engine

import "strings"

// Normalize trims surrounding whitespace from a raw query. Case folding is
// applied at comparison time only, so the original casing survives for
// display and history.
func Normalize(query string) string {
	return strings.TrimSpace(query)
}

// fold lowercases a field value for comparison.
func fold(s string) string {
	return strings.ToLower(s)
}
