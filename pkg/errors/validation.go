package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// fieldNameRegex matches attribute field names that can be interpolated into
// a filter predicate without quoting.
var fieldNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateFieldName validates an attribute field name.
// Field names end up on the left-hand side of a filter predicate, so only
// identifier characters are accepted.
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "field name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "field name too long (max 128 characters)")
	}
	if !fieldNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid field name: %q", name)
	}
	return nil
}

// ValidateLayerName validates a layer identifier.
//
// Validation rules:
//   - Name cannot be empty or blank
//   - Maximum length of 256 characters
//   - No control characters or null bytes
func ValidateLayerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "layer name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "layer name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layer name contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputDir validates an output directory path.
// It only rejects values that can never name a directory; existence is
// checked by the caller.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return New(ErrCodeInvalidInput, "output directory cannot be empty")
	}
	if strings.ContainsRune(dir, '\x00') {
		return New(ErrCodeInvalidInput, "output directory contains a null byte")
	}
	return nil
}
