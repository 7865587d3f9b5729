package batch

import (
	"math"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/export"
)

func validConfig() Config {
	return Config{Layer: "parcels", UniqueField: "PARCEL_ID", OutputDir: "/tmp/out"}
}

func TestConfigDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	want := Config{
		Layer:       "parcels",
		UniqueField: "PARCEL_ID",
		OutputDir:   "/tmp/out",
		FillMode:    FillModeFill,
		ExtentScale: 100,
		Format:      export.FormatPNG,
		DPI:         96,
		JPEGQuality: 80,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	// Idempotent.
	again := c
	if err := again.Validate(); err != nil || again != c {
		t.Errorf("second Validate() changed config or failed: %v", err)
	}
}

func TestConfigNormalizes(t *testing.T) {
	c := validConfig()
	c.FillMode = "Proportional"
	c.Format = "jpeg"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if c.FillMode != FillModeProportional || c.Format != export.FormatJPEG {
		t.Errorf("got mode %q format %q", c.FillMode, c.Format)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   errors.Code
	}{
		{"missing layer", func(c *Config) { c.Layer = " " }, errors.ErrCodeInvalidInput},
		{"bad field", func(c *Config) { c.UniqueField = "NAME; DROP" }, errors.ErrCodeInvalidInput},
		{"missing output", func(c *Config) { c.OutputDir = "" }, errors.ErrCodeInvalidInput},
		{"bad mode", func(c *Config) { c.FillMode = "stretch" }, errors.ErrCodeInvalidInput},
		{"bad format", func(c *Config) { c.Format = "GIF" }, errors.ErrCodeUnsupported},
		{"negative scale", func(c *Config) { c.ExtentScale = -10 }, errors.ErrCodeInvalidInput},
		{"nan scale", func(c *Config) { c.ExtentScale = math.NaN() }, errors.ErrCodeInvalidInput},
		{"dpi too high", func(c *Config) { c.DPI = MaxDPI + 1 }, errors.ErrCodeInvalidInput},
		{"negative dpi", func(c *Config) { c.DPI = -1 }, errors.ErrCodeInvalidInput},
		{"quality too high", func(c *Config) { c.JPEGQuality = 101 }, errors.ErrCodeInvalidInput},
		{"negative quality", func(c *Config) { c.JPEGQuality = -1 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Validate() succeeded, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestConfigFromTOML(t *testing.T) {
	const doc = `
layer = "parcels"
unique_field = "PARCEL_ID"
output_dir = "out"
fill_mode = "proportional"
extent_scale = 120.0
format = "JPG"
dpi = 300
jpeg_quality = 90
overwrite = true
`
	var c Config
	if _, err := toml.Decode(doc, &c); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	want := Config{
		Layer:       "parcels",
		UniqueField: "PARCEL_ID",
		OutputDir:   "out",
		FillMode:    FillModeProportional,
		ExtentScale: 120,
		Format:      export.FormatJPEG,
		DPI:         300,
		JPEGQuality: 90,
		Overwrite:   true,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
