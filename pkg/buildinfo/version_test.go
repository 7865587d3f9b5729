package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	Version, Commit, Date = "v0.3.0", "0123456789abcdef0123", "2026-01-02T03:04:05Z"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })

	got := String()
	want := "featexport v0.3.0 (commit 0123456789ab, built 2026-01-02T03:04:05Z)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "commit: 0123456789abcdef0123") {
		t.Errorf("Template() = %q", tmpl)
	}
}
