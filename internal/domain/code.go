package domain

import "strings"

// NormalizeCode strips the trailing '#' markers some BC3 writers append to
// decomposed concepts. Two codes differing only in trailing '#' refer to
// the same resource, so every lookup key goes through here.
func NormalizeCode(code string) string {
	return strings.TrimRight(strings.TrimSpace(code), "#")
}
