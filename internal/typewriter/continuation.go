package typewriter

import (
	"strings"
	"unicode/utf8"
)

// continuationPrefix caps how much of the shown text is compared when deciding
// whether a new target continues it. Long logs only compare this many
// characters; a divergence past it is classified as an append.
const continuationPrefix = 100

// isBeingAppended reports whether next looks like existing with more text
// appended. Both lengths are counted in characters (code points).
func isBeingAppended(existing, next string) bool {
	existingLen := utf8.RuneCountInString(existing)
	nextLen := utf8.RuneCountInString(next)
	if nextLen < existingLen {
		return false
	}
	prefix := existing
	if existingLen > continuationPrefix && nextLen > continuationPrefix {
		prefix = headRunes(existing, continuationPrefix)
	}
	return strings.HasPrefix(next, prefix)
}

// headRunes returns the first n characters of s.
func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for idx := range s {
		if i == n {
			return s[:idx]
		}
		i++
	}
	return s
}

// skipRunes drops the first n characters of s. It returns "" when s is shorter.
func skipRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for idx := range s {
		if i == n {
			return s[idx:]
		}
		i++
	}
	return ""
}
