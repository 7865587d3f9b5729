package memhost

import (
	"bufio"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"golang.org/x/image/vector"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/host"
)

// maxPixels bounds either side of a rendered image.
const maxPixels = 32768

// ExportPNG renders the frame's current view to a PNG file.
func (h *Host) ExportPNG(f host.Frame, path string, dpi int) error {
	img, err := h.render(f, dpi)
	if err != nil {
		return err
	}
	return writeImage(path, func(w io.Writer) error { return png.Encode(w, img) })
}

// ExportJPEG renders the frame's current view to a JPEG file. quality is
// clamped to 1..100.
func (h *Host) ExportJPEG(f host.Frame, path string, dpi, quality int) error {
	img, err := h.render(f, dpi)
	if err != nil {
		return err
	}
	quality = min(max(quality, 1), 100)
	return writeImage(path, func(w io.Writer) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	})
}

// writeImage encodes into a temporary file next to path and renames it into
// place, so a failed export never leaves a partial image at path.
func writeImage(path string, encode func(io.Writer) error) (err error) {
	out, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(out.Name())
		}
	}()

	if err := out.Chmod(0o644); err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if err := encode(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), path)
}

func (h *Host) render(f host.Frame, dpi int) (*image.RGBA, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fr, err := h.frame(f)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %d", dpi)
	}
	w := int(math.Round(fr.widthIn * float64(dpi)))
	ht := int(math.Round(fr.heightIn * float64(dpi)))
	if w < 1 || ht < 1 || w > maxPixels || ht > maxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image size %dx%d out of range", w, ht)
	}

	c := newCanvas(w, ht, dpi, fr)
	// Clip a little outside the frame so outlines do not show at the edges.
	window := fr.extent.Bound().Pad(0.01 * math.Max(fr.extent.Width(), fr.extent.Height()))
	for _, l := range h.layers {
		for _, feat := range l.visible(fr.extent) {
			if g := clip.Geometry(window, orb.Clone(feat.geom)); g != nil {
				c.draw(g, l.fill, l.stroke)
			}
		}
	}
	return c.img, nil
}

// canvas maps frame coordinates to pixels and paints with a vector rasterizer.
type canvas struct {
	img    *image.RGBA
	raster *vector.Rasterizer
	sx, sy float64
	x0, y1 float64
	line   float64 // half stroke width in pixels
	marker float64 // half point marker size in pixels
}

func newCanvas(w, h, dpi int, fr *frame) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	px := float64(dpi) / 96
	return &canvas{
		img:    img,
		raster: vector.NewRasterizer(w, h),
		sx:     float64(w) / fr.extent.Width(),
		sy:     float64(h) / fr.extent.Height(),
		x0:     fr.extent.XMin,
		y1:     fr.extent.YMax,
		line:   math.Max(0.5, px/2),
		marker: 3 * px,
	}
}

func (c *canvas) pt(p orb.Point) (float32, float32) {
	return float32((p[0] - c.x0) * c.sx), float32((c.y1 - p[1]) * c.sy)
}

func (c *canvas) draw(g orb.Geometry, fill, stroke color.Color) {
	switch g := g.(type) {
	case orb.Point:
		c.point(g, stroke)
	case orb.MultiPoint:
		for _, p := range g {
			c.point(p, stroke)
		}
	case orb.LineString:
		c.stroke(g, false, stroke)
	case orb.MultiLineString:
		for _, ls := range g {
			c.stroke(ls, false, stroke)
		}
	case orb.Ring:
		c.polygon(orb.Polygon{g}, fill, stroke)
	case orb.Polygon:
		c.polygon(g, fill, stroke)
	case orb.MultiPolygon:
		for _, p := range g {
			c.polygon(p, fill, stroke)
		}
	case orb.Bound:
		c.polygon(g.ToPolygon(), fill, stroke)
	case orb.Collection:
		for _, sub := range g {
			c.draw(sub, fill, stroke)
		}
	}
}

func (c *canvas) paint(col color.Color) {
	c.raster.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *canvas) reset() {
	b := c.img.Bounds()
	c.raster.Reset(b.Dx(), b.Dy())
}

func (c *canvas) polygon(p orb.Polygon, fill, stroke color.Color) {
	c.reset()
	for _, ring := range p {
		if len(ring) < 3 {
			continue
		}
		x, y := c.pt(ring[0])
		c.raster.MoveTo(x, y)
		for _, q := range ring[1:] {
			x, y = c.pt(q)
			c.raster.LineTo(x, y)
		}
		c.raster.ClosePath()
	}
	c.paint(fill)
	for _, ring := range p {
		c.stroke(orb.LineString(ring), true, stroke)
	}
}

// stroke outlines a path as one quad per segment.
func (c *canvas) stroke(ls orb.LineString, closed bool, col color.Color) {
	if len(ls) < 2 {
		return
	}
	c.reset()
	n := len(ls) - 1
	if closed && !ls[0].Equal(ls[n]) {
		n++
	}
	for i := 0; i < n; i++ {
		ax, ay := c.pt(ls[i])
		bx, by := c.pt(ls[(i+1)%len(ls)])
		c.segment(float64(ax), float64(ay), float64(bx), float64(by))
	}
	c.paint(col)
}

func (c *canvas) segment(ax, ay, bx, by float64) {
	vx, vy := bx-ax, by-ay
	l := math.Hypot(vx, vy)
	if l == 0 {
		return
	}
	nx, ny := -vy/l*c.line, vx/l*c.line
	c.raster.MoveTo(float32(ax+nx), float32(ay+ny))
	c.raster.LineTo(float32(bx+nx), float32(by+ny))
	c.raster.LineTo(float32(bx-nx), float32(by-ny))
	c.raster.LineTo(float32(ax-nx), float32(ay-ny))
	c.raster.ClosePath()
}

func (c *canvas) point(p orb.Point, col color.Color) {
	c.reset()
	x, y := c.pt(p)
	m := float32(c.marker)
	c.raster.MoveTo(x-m, y-m)
	c.raster.LineTo(x+m, y-m)
	c.raster.LineTo(x+m, y+m)
	c.raster.LineTo(x-m, y+m)
	c.raster.ClosePath()
	c.paint(col)
}
