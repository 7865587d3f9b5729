package batch

import "testing"

func TestFilterPrefix(t *testing.T) {
	tests := []struct {
		existing, want string
	}{
		{"", ""},
		{"   ", ""},
		{"ZONE = 'R1'", "ZONE = 'R1' AND "},
		{" ZONE = 'R1' ", "ZONE = 'R1' AND "},
	}
	for _, tt := range tests {
		if got := FilterPrefix(tt.existing); got != tt.want {
			t.Errorf("FilterPrefix(%q) = %q, want %q", tt.existing, got, tt.want)
		}
	}
}

func TestFeaturePredicate(t *testing.T) {
	tests := []struct {
		name          string
		prefix, label string
		want          string
	}{
		{"plain", "", "Paris", "NAME = 'Paris'"},
		{"prefixed", "ZONE = 'R1' AND ", "Paris", "ZONE = 'R1' AND NAME = 'Paris'"},
		{"quote", "", "L'Haÿ-les-Roses", "NAME = 'L''Haÿ-les-Roses'"},
		{"empty label", "", "", "NAME = ''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FeaturePredicate(tt.prefix, "NAME", tt.label); got != tt.want {
				t.Errorf("FeaturePredicate() = %q, want %q", got, tt.want)
			}
		})
	}
}
