package errors

import (
	"strings"
	"testing"
)

func TestValidateFieldName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "NAME", false},
		{"valid with underscore", "CTY_NAME", false},
		{"valid leading underscore", "_id", false},
		{"valid with digits", "zone2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"leading digit", "2zone", true},
		{"space", "CTY NAME", true},
		{"quote", "NAME'", true},
		{"predicate injection", "NAME = 'x' OR 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateFieldName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateLayerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "parcels", false},
		{"valid with spaces", "County Boundaries", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", 300), true},
		{"control char", "par\x01cels", true},
		{"newline", "par\ncels", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayerName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayerName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out", false},
		{"absolute", "/tmp/out", false},
		{"empty", "", true},
		{"blank", " ", true},
		{"null byte", "out\x00dir", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputDir(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputDir(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
