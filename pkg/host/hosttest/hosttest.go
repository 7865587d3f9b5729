// Package hosttest provides an in-memory host.Host for tests.
//
// The fake keeps one filter per layer and one extent/scale per frame, logs
// every call, and records the view state at each export so tests can assert
// on what would have been rendered. Failures are injected per method:
//
//	h := hosttest.New("Layers")
//	h.Rows = []hosttest.Row{{Extent: e, Value: "Paris"}}
//	h.FailOn("ExportPNG", 2, errors.New("disk full"))
package hosttest

import (
	"fmt"
	"os"
	"sync"

	"github.com/matzehuels/featexport/pkg/extent"
	"github.com/matzehuels/featexport/pkg/host"
)

// Frame is a named display frame.
type Frame string

// Name implements host.Frame.
func (f Frame) Name() string { return string(f) }

// Row is one feature served by the fake data source.
type Row struct {
	Extent extent.Extent
	Value  string
}

// Export records the view state at the time of an export call.
type Export struct {
	Format  string
	Path    string
	DPI     int
	Quality int
	Filters map[string]string // layer -> filter
	Extent  extent.Extent
	Scale   float64
}

// Host is a fake host.Host. The zero value is not usable; call New.
type Host struct {
	mu sync.Mutex

	Frames     []host.Frame
	ShapeField string
	Rows       []Row

	// ScaleFor derives the frame scale after SetFrameExtent.
	// The default is the extent width times 100.
	ScaleFor func(extent.Extent) float64

	// WriteFiles makes exports create the target file.
	WriteFiles bool

	Filters   map[string]string
	Extents   map[string]extent.Extent
	Scales    map[string]float64
	Calls     []string
	Exports   []Export
	Refreshes int

	failures map[string]failure
	counts   map[string]int
}

type failure struct {
	n   int
	err error
}

// New creates a fake host with the named frames.
func New(frames ...string) *Host {
	h := &Host{
		ShapeField: "Shape",
		Filters:    make(map[string]string),
		Extents:    make(map[string]extent.Extent),
		Scales:     make(map[string]float64),
		failures:   make(map[string]failure),
		counts:     make(map[string]int),
	}
	for _, f := range frames {
		h.Frames = append(h.Frames, Frame(f))
	}
	return h
}

// FailOn makes the n-th call (1-based) of method return err.
func (h *Host) FailOn(method string, n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[method] = failure{n: n, err: err}
}

// Count returns how many times method was called.
func (h *Host) Count(method string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[method]
}

func (h *Host) call(method string, args ...any) error {
	h.counts[method]++
	h.Calls = append(h.Calls, method+fmt.Sprintf("%v", args))
	if f, ok := h.failures[method]; ok && f.n == h.counts[method] {
		return f.err
	}
	return nil
}

func (h *Host) DisplayFrames() ([]host.Frame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("DisplayFrames"); err != nil {
		return nil, err
	}
	return h.Frames, nil
}

func (h *Host) LayerFilter(layer string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("LayerFilter", layer); err != nil {
		return "", err
	}
	return h.Filters[layer], nil
}

func (h *Host) SetLayerFilter(layer, filter string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("SetLayerFilter", layer, filter); err != nil {
		return err
	}
	h.Filters[layer] = filter
	return nil
}

func (h *Host) FrameExtent(f host.Frame) (extent.Extent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("FrameExtent", f.Name()); err != nil {
		return extent.Extent{}, err
	}
	return h.Extents[f.Name()], nil
}

func (h *Host) SetFrameExtent(f host.Frame, e extent.Extent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("SetFrameExtent", f.Name(), e); err != nil {
		return err
	}
	h.Extents[f.Name()] = e
	if h.ScaleFor != nil {
		h.Scales[f.Name()] = h.ScaleFor(e)
	} else {
		h.Scales[f.Name()] = e.Width() * 100
	}
	return nil
}

func (h *Host) FrameScale(f host.Frame) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("FrameScale", f.Name()); err != nil {
		return 0, err
	}
	return h.Scales[f.Name()], nil
}

func (h *Host) SetFrameScale(f host.Frame, scale float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("SetFrameScale", f.Name(), scale); err != nil {
		return err
	}
	h.Scales[f.Name()] = scale
	return nil
}

func (h *Host) Refresh() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("Refresh"); err != nil {
		return err
	}
	h.Refreshes++
	return nil
}

func (h *Host) DescribeShapeField(layer string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("DescribeShapeField", layer); err != nil {
		return "", err
	}
	return h.ShapeField, nil
}

func (h *Host) OpenCursor(layer string, fields []string) (host.Cursor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call("OpenCursor", layer, fields); err != nil {
		return nil, err
	}
	rows := make([]Row, len(h.Rows))
	copy(rows, h.Rows)
	return &cursor{rows: rows, i: -1}, nil
}

func (h *Host) ExportPNG(f host.Frame, path string, dpi int) error {
	return h.export("ExportPNG", "PNG", f, path, dpi, 0)
}

func (h *Host) ExportJPEG(f host.Frame, path string, dpi, quality int) error {
	return h.export("ExportJPEG", "JPEG", f, path, dpi, quality)
}

func (h *Host) export(method, format string, f host.Frame, path string, dpi, quality int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.call(method, path); err != nil {
		return err
	}
	filters := make(map[string]string, len(h.Filters))
	for k, v := range h.Filters {
		filters[k] = v
	}
	h.Exports = append(h.Exports, Export{
		Format:  format,
		Path:    path,
		DPI:     dpi,
		Quality: quality,
		Filters: filters,
		Extent:  h.Extents[f.Name()],
		Scale:   h.Scales[f.Name()],
	})
	if h.WriteFiles {
		return os.WriteFile(path, []byte(format+" "+path), 0o644)
	}
	return nil
}

type cursor struct {
	rows []Row
	i    int
}

func (c *cursor) Next() bool {
	c.i++
	return c.i < len(c.rows)
}

func (c *cursor) Row() (extent.Extent, string) {
	return c.rows[c.i].Extent, c.rows[c.i].Value
}

func (c *cursor) Err() error   { return nil }
func (c *cursor) Close() error { return nil }

var _ host.Host = (*Host)(nil)
