package batch

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/export"
)

// FillMode selects how features are framed.
type FillMode string

const (
	// FillModeFill zooms every feature to its own padded extent.
	FillModeFill FillMode = "fill"

	// FillModeProportional renders every feature at one common scale.
	FillModeProportional FillMode = "proportional"
)

// Default values applied by SetDefaults.
const (
	DefaultFillMode    = FillModeFill
	DefaultExtentScale = 100.0
	DefaultFormat      = export.FormatPNG
	DefaultDPI         = 96
	DefaultJPEGQuality = 80

	// MaxDPI bounds the output resolution.
	MaxDPI = 2400
)

// Config holds the parameters of one batch run.
// It can be decoded from TOML or JSON.
type Config struct {
	Layer       string        `toml:"layer" json:"layer"`
	UniqueField string        `toml:"unique_field" json:"unique_field"`
	OutputDir   string        `toml:"output_dir" json:"output_dir"`
	FillMode    FillMode      `toml:"fill_mode" json:"fill_mode"`
	ExtentScale float64       `toml:"extent_scale" json:"extent_scale"` // percent; 100 = feature extent
	Format      export.Format `toml:"format" json:"format"`
	DPI         int           `toml:"dpi" json:"dpi"`
	JPEGQuality int           `toml:"jpeg_quality" json:"jpeg_quality"` // 0 selects the default
	Overwrite   bool          `toml:"overwrite" json:"overwrite"`
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.FillMode == "" {
		c.FillMode = DefaultFillMode
	}
	if c.ExtentScale == 0 {
		c.ExtentScale = DefaultExtentScale
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.DPI == 0 {
		c.DPI = DefaultDPI
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = DefaultJPEGQuality
	}
}

// Validate applies defaults, normalizes enum spellings and checks every field.
// It is idempotent.
func (c *Config) Validate() error {
	c.SetDefaults()

	if err := errors.ValidateLayerName(c.Layer); err != nil {
		return err
	}
	if err := errors.ValidateFieldName(c.UniqueField); err != nil {
		return err
	}
	if err := errors.ValidateOutputDir(c.OutputDir); err != nil {
		return err
	}

	mode, err := ParseFillMode(string(c.FillMode))
	if err != nil {
		return err
	}
	c.FillMode = mode

	format, err := export.ParseFormat(string(c.Format))
	if err != nil {
		return err
	}
	c.Format = format

	if math.IsNaN(c.ExtentScale) || math.IsInf(c.ExtentScale, 0) || c.ExtentScale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "extent scale must be a positive percentage, got %v", c.ExtentScale)
	}
	if c.DPI < 1 || c.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be between 1 and %d, got %d", MaxDPI, c.DPI)
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality must be between 0 and 100, got %d", c.JPEGQuality)
	}
	return nil
}

// ParseFillMode accepts "fill" and "proportional" in any case.
func ParseFillMode(s string) (FillMode, error) {
	switch FillMode(strings.ToLower(strings.TrimSpace(s))) {
	case FillModeFill:
		return FillModeFill, nil
	case FillModeProportional:
		return FillModeProportional, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid fill mode: %q (must be fill or proportional)", s)
}

// String returns a one-line summary for logs.
func (c Config) String() string {
	return fmt.Sprintf("layer=%s field=%s mode=%s scale=%g%% format=%s dpi=%d", c.Layer, c.UniqueField, c.FillMode, c.ExtentScale, c.Format, c.DPI)
}
