package memhost

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/featexport/pkg/errors"
)

// FrameSpec describes a display frame.
type FrameSpec struct {
	Name          string    `toml:"name"`
	WidthIn       float64   `toml:"width_in"`
	HeightIn      float64   `toml:"height_in"`
	MetersPerUnit float64   `toml:"meters_per_unit"`
	Extent        []float64 `toml:"extent"` // xmin, ymin, xmax, ymax; optional
}

// LayerSpec describes a vector layer.
type LayerSpec struct {
	Name   string `toml:"name"`
	Path   string `toml:"path"`
	Filter string `toml:"filter"`
	Fill   string `toml:"fill"`
	Stroke string `toml:"stroke"`
}

// Document is a decoded map document.
type Document struct {
	Frames []FrameSpec `toml:"frames"`
	Layers []LayerSpec `toml:"layers"`

	// Dir is the directory relative layer paths resolve against.
	Dir string `toml:"-"`
}

// LoadDocument decodes and validates the map document at path.
func LoadDocument(path string) (*Document, error) {
	var doc Document
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode map document %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q in map document %s", undecoded[0].String(), path)
	}
	doc.Dir = filepath.Dir(path)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate applies defaults and checks frame and layer definitions.
func (d *Document) Validate() error {
	if len(d.Frames) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "map document has no frames")
	}
	seen := make(map[string]bool)
	for i := range d.Frames {
		f := &d.Frames[i]
		if f.Name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "frame %d has no name", i)
		}
		if seen[f.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate frame %q", f.Name)
		}
		seen[f.Name] = true
		if f.WidthIn <= 0 || f.HeightIn <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "frame %q: page size must be positive", f.Name)
		}
		if f.MetersPerUnit == 0 {
			f.MetersPerUnit = 1
		}
		if f.MetersPerUnit < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "frame %q: meters_per_unit must be positive", f.Name)
		}
		if f.Extent != nil && len(f.Extent) != 4 {
			return errors.New(errors.ErrCodeInvalidInput, "frame %q: extent needs 4 values", f.Name)
		}
	}

	seen = make(map[string]bool)
	for i, l := range d.Layers {
		if err := errors.ValidateLayerName(l.Name); err != nil {
			return err
		}
		if seen[l.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate layer %q", l.Name)
		}
		seen[l.Name] = true
		if l.Path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "layer %d (%q) has no path", i, l.Name)
		}
	}
	return nil
}

func (d *Document) resolve(path string) string {
	if filepath.IsAbs(path) || d.Dir == "" {
		return path
	}
	return filepath.Join(d.Dir, path)
}
