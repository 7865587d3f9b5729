package catalog

import (
	"strings"
	"unicode"
)

// SanitizeFilename strips label down to characters that are safe in a file
// name: Unicode letters and numbers plus space, '.' and '_'. Everything else
// is dropped, not replaced, and trailing whitespace is trimmed.
func SanitizeFilename(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func keepRune(r rune) bool {
	switch r {
	case ' ', '.', '_':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
