package memhost_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/featexport/pkg/batch"
	"github.com/matzehuels/featexport/pkg/extent"
	"github.com/matzehuels/featexport/pkg/host/memhost"
)

const doc = `
[[frames]]
name = "Layers"
width_in = 3.0
height_in = 2.0

[[layers]]
name = "districts"
path = "districts.geojson"
filter = "REGION = 'west'"
`

const districts = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"NAME": "Oak Hill", "REGION": "west"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[300,0],[300,200],[0,200],[0,0]]]}},
    {"type": "Feature", "properties": {"NAME": "Saint-Cloud/West #5", "REGION": "west"},
     "geometry": {"type": "Polygon", "coordinates": [[[400,0],[1000,0],[1000,400],[400,400],[400,0]]]}},
    {"type": "Feature", "properties": {"NAME": "Riverside", "REGION": "east"},
     "geometry": {"type": "LineString", "coordinates": [[0,500],[100,600]]}}
  ]
}`

func TestRunAgainstMemhost(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "map.toml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "districts.geojson"), []byte(districts), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := memhost.Open(filepath.Join(dir, "map.toml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	frames, _ := h.DisplayFrames()
	before, _ := h.FrameExtent(frames[0])

	out := filepath.Join(dir, "out")
	cfg := batch.Config{
		Layer:       "districts",
		UniqueField: "NAME",
		OutputDir:   out,
		FillMode:    batch.FillModeProportional,
		ExtentScale: 110,
		DPI:         20,
	}
	report, err := batch.NewRunner(h, nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// The east district is outside the layer's filter.
	if report.Features != 2 || report.Exported != 2 {
		t.Errorf("report = %+v, want 2 features exported", report)
	}
	for _, name := range []string{"Oak Hill.png", "SaintCloudWest 5.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	// The larger district decides the scale: 660 m across a 3 in page.
	want := extent.Pad(extent.Extent{XMin: 400, XMax: 1000, YMin: 0, YMax: 400}, 110).Width() / (3 * 0.0254)
	if d := report.CommonScale - want; d > 1e-6 || d < -1e-6 {
		t.Errorf("CommonScale = %v, want %v", report.CommonScale, want)
	}

	if f, _ := h.LayerFilter("districts"); f != "REGION = 'west'" {
		t.Errorf("filter not restored: %q", f)
	}
	if after, _ := h.FrameExtent(frames[0]); after != before {
		t.Errorf("extent not restored: %v, want %v", after, before)
	}
}
