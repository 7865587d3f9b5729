package memhost

import (
	"fmt"
	"image/color"
	"os"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/extent"
)

// ShapeField is the name under which a layer exposes feature geometry.
const ShapeField = "geometry"

var (
	defaultFill   = color.RGBA{0x88, 0xaa, 0xdd, 0xff}
	defaultStroke = color.RGBA{0x33, 0x33, 0x33, 0xff}
)

// feature is one GeoJSON feature with a cached bound.
type feature struct {
	seq   int
	geom  orb.Geometry
	bound orb.Bound
	props geojson.Properties
}

// Bounds implements rtreego.Spatial.
func (f *feature) Bounds() rtreego.Rect {
	return rectOf(f.bound)
}

// rectOf converts a bound to an R-tree rectangle. The tree needs non-zero
// side lengths, so points and axis-aligned lines get a small epsilon.
func rectOf(b orb.Bound) rtreego.Rect {
	const epsilon = 1e-9
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{w, h})
	return rect
}

// value returns the attribute formatted as text. Null and missing
// attributes are empty.
func (f *feature) value(field string) string {
	v, ok := f.props[field]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

type layer struct {
	name     string
	features []*feature
	fields   map[string]bool
	index    *rtreego.Rtree
	bound    orb.Bound
	filter   string
	pred     predicate
	fill     color.Color
	stroke   color.Color
}

func loadLayer(spec LayerSpec, path string) (*layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read layer %q", spec.Name)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layer %q", spec.Name)
	}

	l := &layer{
		name:   spec.Name,
		fields: make(map[string]bool),
		index:  rtreego.NewTree(2, 25, 50),
	}
	if l.fill, err = parseColor(spec.Fill, defaultFill); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "layer %q fill", spec.Name)
	}
	if l.stroke, err = parseColor(spec.Stroke, defaultStroke); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "layer %q stroke", spec.Name)
	}
	if err := l.setFilter(spec.Filter); err != nil {
		return nil, err
	}

	for _, gf := range fc.Features {
		if gf.Geometry == nil {
			continue
		}
		f := &feature{
			seq:   len(l.features),
			geom:  gf.Geometry,
			bound: gf.Geometry.Bound(),
			props: gf.Properties,
		}
		for k := range f.props {
			l.fields[k] = true
		}
		if len(l.features) == 0 {
			l.bound = f.bound
		} else {
			l.bound = l.bound.Union(f.bound)
		}
		l.features = append(l.features, f)
		l.index.Insert(f)
	}
	return l, nil
}

func (l *layer) setFilter(filter string) error {
	pred, err := parseFilter(filter)
	if err != nil {
		return err
	}
	l.filter = filter
	l.pred = pred
	return nil
}

func (l *layer) selected(f *feature) bool {
	return l.pred.match(f.value)
}

// visible returns the selected features intersecting e in load order.
func (l *layer) visible(e extent.Extent) []*feature {
	hits := l.index.SearchIntersect(rectOf(e.Bound()))
	out := make([]*feature, 0, len(hits))
	for _, s := range hits {
		if f := s.(*feature); l.selected(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (l *layer) fieldNames() []string {
	names := make([]string, 0, len(l.fields))
	for k := range l.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func parseColor(s string, def color.Color) (color.Color, error) {
	if s == "" {
		return def, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, err
	}
	return c.Clamped(), nil
}
