// Package host defines the narrow contract between the batch exporter and
// the map-rendering host it drives.
//
// The host owns a single shared, mutable view: one filter per layer, one
// extent and scale per display frame. The batch mutates that view feature
// by feature and reads it back, so implementations must apply every setter
// synchronously. Nothing in this package is safe to parallelize; a batch run
// issues calls strictly one after another.
//
// Three capabilities are consumed:
//
//   - [MapHost]: display frames, layer filters, frame extent and scale
//   - [DataSource]: a cursor over (geometry extent, attribute value) rows
//   - [Rasterizer]: PNG and JPEG export of the current view
//
// [Host] bundles all three; the in-process implementation lives in
// [github.com/matzehuels/featexport/pkg/host/memhost].
package host

import "github.com/matzehuels/featexport/pkg/extent"

// Frame identifies a display frame in the host's composition.
type Frame interface {
	Name() string
}

// MapHost exposes the host's mutable view state.
type MapHost interface {
	// DisplayFrames lists the frames of the open document in layout order.
	DisplayFrames() ([]Frame, error)

	LayerFilter(layer string) (string, error)
	SetLayerFilter(layer, filter string) error

	FrameExtent(f Frame) (extent.Extent, error)
	SetFrameExtent(f Frame, e extent.Extent) error

	// FrameScale returns the scale denominator the frame currently renders at.
	FrameScale(f Frame) (float64, error)
	SetFrameScale(f Frame, scale float64) error

	// Refresh redraws the active view after filter or extent changes.
	Refresh() error
}

// Cursor iterates rows of a layer. Row is only valid after Next returned true.
type Cursor interface {
	Next() bool
	Row() (extent.Extent, string)
	Err() error
	Close() error
}

// DataSource reads feature rows from a vector layer.
type DataSource interface {
	// DescribeShapeField names the geometry-bearing field of layer.
	DescribeShapeField(layer string) (string, error)

	// OpenCursor iterates the layer yielding the extent of fields[0] (the
	// shape field) and the string value of fields[1].
	OpenCursor(layer string, fields []string) (Cursor, error)
}

// Rasterizer writes the frame's current view to an image file.
// It never changes filter, extent or scale.
type Rasterizer interface {
	ExportPNG(f Frame, path string, dpi int) error
	ExportJPEG(f Frame, path string, dpi, quality int) error
}

// Host bundles every capability a batch run needs.
type Host interface {
	MapHost
	DataSource
	Rasterizer
}
