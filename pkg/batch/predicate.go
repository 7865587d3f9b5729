package batch

import (
	"fmt"
	"strings"
)

// FilterPrefix returns the text every per-feature predicate starts with.
// A non-empty existing filter is kept and AND'ed with the feature clause.
func FilterPrefix(existing string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return ""
	}
	return existing + " AND "
}

// FeaturePredicate selects the single feature whose field equals label.
// Single quotes in label are doubled.
func FeaturePredicate(prefix, field, label string) string {
	return fmt.Sprintf("%s%s = '%s'", prefix, field, strings.ReplaceAll(label, "'", "''"))
}
