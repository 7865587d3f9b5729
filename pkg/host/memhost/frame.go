package memhost

import (
	"math"

	"github.com/matzehuels/featexport/pkg/extent"
)

const metersPerInch = 0.0254

// frame is a display frame with a fixed page size.
type frame struct {
	name          string
	widthIn       float64
	heightIn      float64
	metersPerUnit float64
	extent        extent.Extent
	scale         float64
}

// Name implements host.Frame.
func (f *frame) Name() string { return f.name }

func (f *frame) aspect() float64 { return f.widthIn / f.heightIn }

// groundSize returns the map-unit size of the page at scale s.
func (f *frame) groundSize(s float64) (w, h float64) {
	w = s * f.widthIn * metersPerInch / f.metersPerUnit
	h = s * f.heightIn * metersPerInch / f.metersPerUnit
	return w, h
}

// fit grows the shorter axis of e about its center to the page aspect.
func fit(e extent.Extent, aspect float64) extent.Extent {
	w, h := e.Width(), e.Height()
	if math.Abs(w-h*aspect) <= 1e-9*math.Max(w, h*aspect) {
		return e
	}
	cx, cy := e.Center()
	if w > h*aspect {
		return extent.Centered(cx, cy, w, w/aspect)
	}
	return extent.Centered(cx, cy, h*aspect, h)
}

// setExtent shows e, fitted to the page. A point extent keeps the current
// scale and only moves the center.
func (f *frame) setExtent(e extent.Extent) {
	if e.Width() == 0 && e.Height() == 0 {
		cx, cy := e.Center()
		w, h := f.groundSize(f.scale)
		f.extent = extent.Centered(cx, cy, w, h)
		return
	}
	f.extent = fit(e, f.aspect())
	f.scale = f.extent.Width() * f.metersPerUnit / (f.widthIn * metersPerInch)
}

// setScale resizes the extent about its center to show scale 1:s.
func (f *frame) setScale(s float64) {
	cx, cy := f.extent.Center()
	w, h := f.groundSize(s)
	f.extent = extent.Centered(cx, cy, w, h)
	f.scale = s
}
