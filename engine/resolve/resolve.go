// Package resolve maps partial, case-insensitive names typed by the player
// onto the things present in a room or an inventory.
package resolve

import "strings"

// Find resolves query against candidates. An exact case-insensitive name
// match wins; otherwise the first candidate whose name contains the query
// is returned. This lets "potion" pick the potion over a "super potion"
// while "fan" still finds the "blue feather hand fan".
func Find[T any](query string, candidates []T, name func(T) string) (T, int, bool) {
	var zero T
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(candidates) == 0 {
		return zero, -1, false
	}

	for i, c := range candidates {
		if strings.ToLower(name(c)) == q {
			return c, i, true
		}
	}
	for i, c := range candidates {
		if strings.Contains(strings.ToLower(name(c)), q) {
			return c, i, true
		}
	}
	return zero, -1, false
}

// Equal reports whether two names match case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
