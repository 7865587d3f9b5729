package export

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/featexport/pkg/errors"
)

// Format is an output image format.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "PNG"
	FormatJPEG Format = "JPEG"
)

// ParseFormat accepts png, jpg and jpeg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG":
		return FormatPNG, nil
	case "JPG", "JPEG":
		return FormatJPEG, nil
	}
	return "", &errors.UnsupportedFormatError{Format: s}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpg"
	}
	return ""
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == FormatPNG || f == FormatJPEG
}

// FileName builds <dir>/<stem>.<ext>.
func FileName(dir, stem string, f Format) string {
	return filepath.Join(dir, stem+"."+f.Ext())
}
