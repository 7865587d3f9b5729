package memhost

import (
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/extent"
	"github.com/matzehuels/featexport/pkg/host"
)

// defaultScale is used for frames with neither an extent nor any features.
const defaultScale = 1000

// Host is an in-process map host. It is safe for concurrent use, although a
// batch drives it sequentially.
type Host struct {
	mu        sync.Mutex
	logger    *log.Logger
	frames    []*frame
	layers    []*layer
	byName    map[string]*layer
	refreshes int
}

// Open loads the map document at path and every layer it names.
func Open(path string, logger *log.Logger) (*Host, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return New(doc, logger)
}

// New builds a host from a validated document.
func New(doc *Document, logger *log.Logger) (*Host, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	h := &Host{logger: logger, byName: make(map[string]*layer)}

	var (
		full     orb.Bound
		haveFull bool
	)
	for _, spec := range doc.Layers {
		l, err := loadLayer(spec, doc.resolve(spec.Path))
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded layer", "layer", l.name, "features", len(l.features), "fields", len(l.fields))
		if len(l.features) > 0 {
			if haveFull {
				full = full.Union(l.bound)
			} else {
				full, haveFull = l.bound, true
			}
		}
		h.layers = append(h.layers, l)
		h.byName[l.name] = l
	}

	for _, spec := range doc.Frames {
		f := &frame{
			name:          spec.Name,
			widthIn:       spec.WidthIn,
			heightIn:      spec.HeightIn,
			metersPerUnit: spec.MetersPerUnit,
			scale:         defaultScale,
		}
		switch {
		case spec.Extent != nil:
			e, err := extent.FromSlice(spec.Extent)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "frame %q extent", spec.Name)
			}
			if !e.Valid() {
				return nil, errors.New(errors.ErrCodeInvalidInput, "frame %q extent %v is inverted", spec.Name, e)
			}
			f.setExtent(e)
		case haveFull:
			f.setExtent(extent.FromBound(full))
		default:
			f.setScale(defaultScale)
		}
		h.frames = append(h.frames, f)
	}
	return h, nil
}

// Layers returns the layer names bottom-up.
func (h *Host) Layers() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.layers))
	for i, l := range h.layers {
		names[i] = l.name
	}
	return names
}

// Fields returns the sorted attribute names carried by features of layer.
func (h *Host) Fields(layer string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, err := h.layer(layer)
	if err != nil {
		return nil, err
	}
	return l.fieldNames(), nil
}

// Refreshes returns how many times the view was refreshed.
func (h *Host) Refreshes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refreshes
}

func (h *Host) layer(name string) (*layer, error) {
	l, ok := h.byName[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", name)
	}
	return l, nil
}

func (h *Host) frame(f host.Frame) (*frame, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeFrameNotFound, "no frame given")
	}
	for _, fr := range h.frames {
		if fr.name == f.Name() {
			return fr, nil
		}
	}
	return nil, errors.New(errors.ErrCodeFrameNotFound, "frame %q not found", f.Name())
}

func (h *Host) DisplayFrames() ([]host.Frame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	frames := make([]host.Frame, len(h.frames))
	for i, f := range h.frames {
		frames[i] = f
	}
	return frames, nil
}

func (h *Host) LayerFilter(layer string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, err := h.layer(layer)
	if err != nil {
		return "", err
	}
	return l.filter, nil
}

// SetLayerFilter replaces the layer's filter. An unparseable filter leaves
// the previous one in place.
func (h *Host) SetLayerFilter(layer, filter string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, err := h.layer(layer)
	if err != nil {
		return err
	}
	return l.setFilter(filter)
}

func (h *Host) FrameExtent(f host.Frame) (extent.Extent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fr, err := h.frame(f)
	if err != nil {
		return extent.Extent{}, err
	}
	return fr.extent, nil
}

func (h *Host) SetFrameExtent(f host.Frame, e extent.Extent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	fr, err := h.frame(f)
	if err != nil {
		return err
	}
	if !e.Valid() || !finite(e.XMin, e.XMax, e.YMin, e.YMax) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid extent %v", e)
	}
	fr.setExtent(e)
	return nil
}

func (h *Host) FrameScale(f host.Frame) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fr, err := h.frame(f)
	if err != nil {
		return 0, err
	}
	return fr.scale, nil
}

func (h *Host) SetFrameScale(f host.Frame, scale float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	fr, err := h.frame(f)
	if err != nil {
		return err
	}
	if !finite(scale) || scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale %v", scale)
	}
	fr.setScale(scale)
	return nil
}

// Refresh checks that every frame shows a drawable extent.
func (h *Host) Refresh() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refreshes++
	for _, f := range h.frames {
		if f.extent.Degenerate() || !finite(f.scale) || f.scale <= 0 {
			return errors.New(errors.ErrCodeInternal, "frame %q has no drawable extent (%v at 1:%g)", f.name, f.extent, f.scale)
		}
	}
	return nil
}

func (h *Host) DescribeShapeField(layer string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.layer(layer); err != nil {
		return "", err
	}
	return ShapeField, nil
}

// OpenCursor returns a cursor over the features of layer that pass its
// current filter. fields must name the shape field and one attribute; the
// row value is the first attribute listed. Rows are snapshotted at open.
func (h *Host) OpenCursor(layer string, fields []string) (host.Cursor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, err := h.layer(layer)
	if err != nil {
		return nil, err
	}

	attr := ""
	for _, name := range fields {
		if name == ShapeField {
			continue
		}
		if !l.fields[name] {
			return nil, errors.New(errors.ErrCodeFieldNotFound, "field %q not found in layer %q", name, layer)
		}
		if attr == "" {
			attr = name
		}
	}

	c := &cursor{i: -1}
	for _, f := range l.features {
		if !l.selected(f) {
			continue
		}
		val := ""
		if attr != "" {
			val = f.value(attr)
		}
		c.rows = append(c.rows, row{extent: extent.FromBound(f.bound), value: val})
	}
	return c, nil
}

type row struct {
	extent extent.Extent
	value  string
}

type cursor struct {
	rows   []row
	i      int
	closed bool
}

func (c *cursor) Next() bool {
	if c.closed {
		return false
	}
	c.i++
	return c.i < len(c.rows)
}

func (c *cursor) Row() (extent.Extent, string) {
	r := c.rows[c.i]
	return r.extent, r.value
}

func (c *cursor) Err() error { return nil }

func (c *cursor) Close() error {
	c.closed = true
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

var _ host.Host = (*Host)(nil)
