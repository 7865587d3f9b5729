// Package workspace snapshots the parts of the host view a batch mutates
// and puts them back afterwards.
//
// Capture before the first mutation and defer Restore:
//
//	g, err := workspace.Capture(h, layer, frame)
//	if err != nil {
//	    return err
//	}
//	defer func() { err = stderrors.Join(err, g.Restore()) }()
//
// Restore writes the captured filter and extent back verbatim and refreshes
// the view. It runs all three host calls even if one fails, and a second call
// is a no-op.
package workspace

import (
	stderrors "errors"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/extent"
	"github.com/matzehuels/featexport/pkg/host"
)

// Snapshot is the host state captured before a batch.
type Snapshot struct {
	Filter string
	Extent extent.Extent
}

// Guard owns a Snapshot and restores it once.
type Guard struct {
	host     host.MapHost
	layer    string
	frame    host.Frame
	snapshot Snapshot
	restored bool
}

// Capture reads the layer filter and frame extent.
func Capture(h host.MapHost, layer string, frame host.Frame) (*Guard, error) {
	filter, err := h.LayerFilter(layer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostFailure, err, "read filter of %q", layer)
	}
	ext, err := h.FrameExtent(frame)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostFailure, err, "read extent of frame %q", frame.Name())
	}
	return &Guard{
		host:     h,
		layer:    layer,
		frame:    frame,
		snapshot: Snapshot{Filter: filter, Extent: ext},
	}, nil
}

// Snapshot returns the captured state.
func (g *Guard) Snapshot() Snapshot { return g.snapshot }

// Restore puts the captured filter and extent back and refreshes the view.
func (g *Guard) Restore() error {
	if g == nil || g.restored {
		return nil
	}
	g.restored = true

	var errs []error
	if err := g.host.SetLayerFilter(g.layer, g.snapshot.Filter); err != nil {
		errs = append(errs, errors.Wrap(errors.ErrCodeHostFailure, err, "restore filter of %q", g.layer))
	}
	if err := g.host.SetFrameExtent(g.frame, g.snapshot.Extent); err != nil {
		errs = append(errs, errors.Wrap(errors.ErrCodeHostFailure, err, "restore extent of frame %q", g.frame.Name()))
	}
	if err := g.host.Refresh(); err != nil {
		errs = append(errs, errors.Wrap(errors.ErrCodeHostFailure, err, "refresh after restore"))
	}
	return stderrors.Join(errs...)
}
