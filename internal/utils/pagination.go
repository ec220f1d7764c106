// Package utils provides small, generic helpers used across layers. They are
// independent of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int, returning def when the string is
// empty or not a valid integer.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// LastPage returns the number of the final page for total items at perPage
// items per page. An empty collection still has one page.
func LastPage(total int64, perPage int) int {
	if perPage < 1 {
		return 1
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		return 1
	}
	return last
}
