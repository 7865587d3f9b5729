// Package extent provides the axis-aligned map extent used throughout the
// batch exporter, and the padding rule applied to each feature's extent.
package extent

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Extent is an axis-aligned bounding box in map units.
type Extent struct {
	XMin float64 `json:"xmin" toml:"xmin"`
	XMax float64 `json:"xmax" toml:"xmax"`
	YMin float64 `json:"ymin" toml:"ymin"`
	YMax float64 `json:"ymax" toml:"ymax"`
}

// FromBound converts an orb bound into an Extent.
func FromBound(b orb.Bound) Extent {
	return Extent{XMin: b.Min.X(), XMax: b.Max.X(), YMin: b.Min.Y(), YMax: b.Max.Y()}
}

// FromSlice builds an Extent from [xmin, ymin, xmax, ymax], the order used
// by GeoJSON bbox members and the map document.
func FromSlice(v []float64) (Extent, error) {
	if len(v) != 4 {
		return Extent{}, fmt.Errorf("extent needs 4 values (xmin, ymin, xmax, ymax), got %d", len(v))
	}
	return Extent{XMin: v[0], YMin: v[1], XMax: v[2], YMax: v[3]}, nil
}

// Bound returns the extent as an orb bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.XMin, e.YMin}, Max: orb.Point{e.XMax, e.YMax}}
}

// Width returns XMax - XMin.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns YMax - YMin.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Center returns the midpoint of the extent.
func (e Extent) Center() (x, y float64) {
	return (e.XMin + e.XMax) / 2, (e.YMin + e.YMax) / 2
}

// Valid reports whether min <= max on both axes.
// Zero-area extents are valid.
func (e Extent) Valid() bool {
	return e.XMin <= e.XMax && e.YMin <= e.YMax
}

// Degenerate reports whether the extent has zero width or zero height.
func (e Extent) Degenerate() bool {
	return e.Width() == 0 || e.Height() == 0
}

// Intersects reports whether two extents overlap, edges included.
func (e Extent) Intersects(o Extent) bool {
	return e.XMin <= o.XMax && o.XMin <= e.XMax && e.YMin <= o.YMax && o.YMin <= e.YMax
}

// String formats the extent for log output.
func (e Extent) String() string {
	return fmt.Sprintf("[%g %g, %g %g]", e.XMin, e.YMin, e.XMax, e.YMax)
}

// Centered returns an extent of the given size centred on (cx, cy).
func Centered(cx, cy, width, height float64) Extent {
	return Extent{
		XMin: cx - width/2,
		XMax: cx + width/2,
		YMin: cy - height/2,
		YMax: cy + height/2,
	}
}
