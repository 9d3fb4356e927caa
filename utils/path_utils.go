package utils

import (
	"strings"
	"unicode"
)

// MakePathAlphanumeric normalizes a compilation unit name into a path which is safe to mirror under the generated
// output root. All characters which are not alphanumeric, an underscore, or a path separator are dropped, and any
// path segment which begins with a digit is escaped with a leading underscore so the segment remains usable as a
// package path element.
func MakePathAlphanumeric(unitName string) string {
	// Drop any character which is not alphanumeric, an underscore, or a path separator.
	var filtered strings.Builder
	for _, ch := range unitName {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '/' || ch == '_' {
			filtered.WriteRune(ch)
		}
	}

	// Escape each path segment which begins with a digit.
	segments := strings.Split(filtered.String(), "/")
	for i, segment := range segments {
		if len(segment) > 0 && unicode.IsDigit(rune(segment[0])) {
			segments[i] = "_" + segment
		}
	}
	return strings.Join(segments, "/")
}
