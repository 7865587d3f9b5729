package workspace

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/extent"
	"github.com/matzehuels/featexport/pkg/host/hosttest"
)

var initial = extent.Extent{XMin: -10, XMax: 10, YMin: -5, YMax: 5}

func setup() (*hosttest.Host, hosttest.Frame) {
	h := hosttest.New("Layers")
	h.Filters["parcels"] = "ZONE = 'R1'"
	h.Extents["Layers"] = initial
	return h, hosttest.Frame("Layers")
}

func TestCaptureRestore(t *testing.T) {
	h, f := setup()

	g, err := Capture(h, "parcels", f)
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if s := g.Snapshot(); s.Filter != "ZONE = 'R1'" || s.Extent != initial {
		t.Errorf("Snapshot() = %+v", s)
	}

	// Mutate the way a batch would.
	_ = h.SetLayerFilter("parcels", "ZONE = 'R1' AND ID = '7'")
	_ = h.SetFrameExtent(f, extent.Extent{XMin: 1, XMax: 2, YMin: 1, YMax: 2})
	_ = h.SetFrameScale(f, 50000)

	refreshes := h.Refreshes
	if err := g.Restore(); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if h.Filters["parcels"] != "ZONE = 'R1'" {
		t.Errorf("filter = %q, want original", h.Filters["parcels"])
	}
	if h.Extents["Layers"] != initial {
		t.Errorf("extent = %v, want %v", h.Extents["Layers"], initial)
	}
	if h.Refreshes != refreshes+1 {
		t.Errorf("Restore should refresh once, got %d", h.Refreshes-refreshes)
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	h, f := setup()
	g, err := Capture(h, "parcels", f)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Restore(); err != nil {
		t.Fatal(err)
	}
	_ = h.SetLayerFilter("parcels", "changed later")
	if err := g.Restore(); err != nil {
		t.Fatal(err)
	}
	if h.Filters["parcels"] != "changed later" {
		t.Error("second Restore should be a no-op")
	}
	if h.Count("SetFrameExtent") != 1 {
		t.Errorf("SetFrameExtent called %d times, want 1", h.Count("SetFrameExtent"))
	}
}

func TestRestoreNilGuard(t *testing.T) {
	var g *Guard
	if err := g.Restore(); err != nil {
		t.Errorf("nil Guard Restore() = %v", err)
	}
}

func TestRestoreContinuesAfterFailure(t *testing.T) {
	h, f := setup()
	g, err := Capture(h, "parcels", f)
	if err != nil {
		t.Fatal(err)
	}
	_ = h.SetFrameExtent(f, extent.Extent{XMin: 1, XMax: 2, YMin: 1, YMax: 2})

	boom := stderrors.New("layer locked")
	h.FailOn("SetLayerFilter", 1, boom)

	err = g.Restore()
	if !stderrors.Is(err, boom) || !errors.Is(err, errors.ErrCodeHostFailure) {
		t.Errorf("Restore() error = %v, want wrapped %v", err, boom)
	}
	if h.Extents["Layers"] != initial {
		t.Error("extent should still be restored when the filter fails")
	}
	if h.Count("Refresh") != 1 {
		t.Error("refresh should still run when the filter fails")
	}
}

func TestCaptureFailures(t *testing.T) {
	boom := stderrors.New("no document")

	for _, method := range []string{"LayerFilter", "FrameExtent"} {
		t.Run(method, func(t *testing.T) {
			h, f := setup()
			h.FailOn(method, 1, boom)
			if _, err := Capture(h, "parcels", f); !stderrors.Is(err, boom) {
				t.Errorf("Capture() error = %v, want %v", err, boom)
			}
		})
	}
}
