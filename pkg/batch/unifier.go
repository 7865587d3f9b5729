package batch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/featexport/pkg/catalog"
	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/export"
	"github.com/matzehuels/featexport/pkg/extent"
	"github.com/matzehuels/featexport/pkg/host"
	"github.com/matzehuels/featexport/pkg/observability"
)

// State is a step of the unifier state machine.
type State int

const (
	StateIdle State = iota
	StatePerFeature
	StateFillDone
	StateScaleReduction
	StateUniformExport
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StatePerFeature:     "per-feature",
	StateFillDone:       "fill-done",
	StateScaleReduction: "scale-reduction",
	StateUniformExport:  "uniform-export",
	StateDone:           "done",
	StateFailed:         "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateFillDone || s == StateDone || s == StateFailed
}

// transitions lists the legal successors of each state. Failed is reachable
// from every non-terminal state and is not listed.
var transitions = map[State][]State{
	StateIdle:           {StatePerFeature},
	StatePerFeature:     {StateFillDone, StateScaleReduction},
	StateScaleReduction: {StateUniformExport},
	StateUniformExport:  {StateDone},
}

// ErrInvalidTransition is returned when the unifier is driven out of order.
var ErrInvalidTransition = stderrors.New("invalid state transition")

// ErrScaleNotObserved is returned by ReduceScale when a record was never measured.
var ErrScaleNotObserved = stderrors.New("feature scale was not observed")

// Unifier renders and exports every record of a batch, in one pass for fill
// mode and three for proportional mode. It is single-use.
type Unifier struct {
	host     host.MapHost
	frame    host.Frame
	exporter *export.Exporter
	cfg      Config
	records  []catalog.Record
	prefix   string
	logger   *log.Logger
	runID    string

	state       State
	commonScale float64
	results     []export.Result
}

// NewUnifier prepares a unifier over records. prefix is the filter prefix
// from [FilterPrefix]; cfg must already be validated.
func NewUnifier(h host.MapHost, frame host.Frame, exp *export.Exporter, cfg Config, records []catalog.Record, prefix string, logger *log.Logger) *Unifier {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Unifier{
		host:     h,
		frame:    frame,
		exporter: exp,
		cfg:      cfg,
		records:  records,
		prefix:   prefix,
		logger:   logger,
	}
}

// State returns the current state.
func (u *Unifier) State() State { return u.state }

// CommonScale returns the scale chosen by the reduction pass, or 0.
func (u *Unifier) CommonScale() float64 { return u.commonScale }

// Records returns the records with their computed fields.
func (u *Unifier) Records() []catalog.Record { return u.records }

// Results returns one export result per exported or skipped file, in order.
func (u *Unifier) Results() []export.Result { return u.results }

// Run drives the unifier to a terminal state. On error the state is Failed;
// the host view is left as-is for the caller's workspace guard to restore.
func (u *Unifier) Run(ctx context.Context) error {
	if err := u.run(ctx); err != nil {
		u.state = StateFailed
		return err
	}
	return nil
}

func (u *Unifier) run(ctx context.Context) error {
	if err := u.transition(ctx, StatePerFeature); err != nil {
		return err
	}
	if err := u.perFeaturePass(ctx); err != nil {
		return err
	}
	if u.cfg.FillMode == FillModeFill {
		return u.transition(ctx, StateFillDone)
	}

	if err := u.transition(ctx, StateScaleReduction); err != nil {
		return err
	}
	scale, err := ReduceScale(u.records)
	if err != nil {
		var empty *errors.EmptyBatchError
		if stderrors.As(err, &empty) {
			empty.Layer = u.cfg.Layer
		}
		return err
	}
	u.commonScale = scale
	u.logger.Infof("Exporting with fixed scale of 1:%s", formatScale(scale))

	if err := u.transition(ctx, StateUniformExport); err != nil {
		return err
	}
	if err := u.uniformPass(ctx); err != nil {
		return err
	}
	return u.transition(ctx, StateDone)
}

func (u *Unifier) transition(ctx context.Context, to State) error {
	if u.state.Terminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, u.state)
	}
	for _, next := range transitions[u.state] {
		if next == to {
			u.logger.Debug("state transition", "from", u.state, "to", to)
			u.state = to
			observability.Batch().OnPass(ctx, u.runID, to.String())
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, u.state, to)
}

// perFeaturePass applies each record's view. Fill mode exports right away;
// proportional mode records the scale the host settled on.
func (u *Unifier) perFeaturePass(ctx context.Context) error {
	for i := range u.records {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := &u.records[i]
		rec.PaddedExtent = extent.Pad(rec.RawExtent, u.cfg.ExtentScale)
		if rec.PaddedExtent.Degenerate() {
			u.logger.Warn("padded extent has zero area", "feature", rec.Label, "extent", rec.PaddedExtent)
		}
		if err := u.apply(rec); err != nil {
			return err
		}
		if err := u.refresh(); err != nil {
			return err
		}

		if u.cfg.FillMode == FillModeFill {
			u.logger.Debug("rendered feature", "feature", rec.Label, "extent", rec.PaddedExtent)
			observability.Batch().OnFeature(ctx, u.runID, StatePerFeature.String(), rec.Label, 0)
			if err := u.export(ctx, rec); err != nil {
				return err
			}
			continue
		}

		scale, err := u.host.FrameScale(u.frame)
		if err != nil {
			return errors.Wrap(errors.ErrCodeHostFailure, err, "read scale for %q", rec.Label)
		}
		if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
			return errors.New(errors.ErrCodeHostFailure, "host reported invalid scale %v for %q", scale, rec.Label)
		}
		rec.SetObservedScale(scale)
		u.logger.Debug("measured feature", "feature", rec.Label, "scale", scale)
		observability.Batch().OnFeature(ctx, u.runID, StatePerFeature.String(), rec.Label, scale)
	}
	return nil
}

// uniformPass re-applies every record at the common scale and exports it.
func (u *Unifier) uniformPass(ctx context.Context) error {
	for i := range u.records {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := &u.records[i]
		if err := u.apply(rec); err != nil {
			return err
		}
		if err := u.host.SetFrameScale(u.frame, u.commonScale); err != nil {
			return errors.Wrap(errors.ErrCodeHostFailure, err, "set scale for %q", rec.Label)
		}
		if err := u.refresh(); err != nil {
			return err
		}
		observability.Batch().OnFeature(ctx, u.runID, StateUniformExport.String(), rec.Label, u.commonScale)
		if err := u.export(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// apply sets the feature filter and padded extent.
func (u *Unifier) apply(rec *catalog.Record) error {
	filter := FeaturePredicate(u.prefix, u.cfg.UniqueField, rec.Label)
	if err := u.host.SetLayerFilter(u.cfg.Layer, filter); err != nil {
		return errors.Wrap(errors.ErrCodeHostFailure, err, "set filter for %q", rec.Label)
	}
	if err := u.host.SetFrameExtent(u.frame, rec.PaddedExtent); err != nil {
		return errors.Wrap(errors.ErrCodeHostFailure, err, "set extent for %q", rec.Label)
	}
	return nil
}

func (u *Unifier) refresh() error {
	if err := u.host.Refresh(); err != nil {
		return errors.Wrap(errors.ErrCodeHostFailure, err, "refresh view")
	}
	return nil
}

func (u *Unifier) export(ctx context.Context, rec *catalog.Record) error {
	res, err := u.exporter.Export(u.frame, export.Request{
		Format:    u.cfg.Format,
		Path:      export.FileName(u.cfg.OutputDir, rec.FilenameStem, u.cfg.Format),
		DPI:       u.cfg.DPI,
		Quality:   u.cfg.JPEGQuality,
		Overwrite: u.cfg.Overwrite,
	})
	if err != nil {
		return err
	}
	u.results = append(u.results, res)
	observability.Batch().OnExport(ctx, u.runID, res.Path, res.Status == export.StatusSkipped, res.Duration)
	return nil
}

// ReduceScale returns the largest observed scale denominator: the most
// zoomed-out scale, at which every feature's padded extent fits.
//
// An empty batch yields *errors.EmptyBatchError; a record that was never
// measured yields ErrScaleNotObserved.
func ReduceScale(records []catalog.Record) (float64, error) {
	if len(records) == 0 {
		return 0, &errors.EmptyBatchError{}
	}
	var largest float64
	for i, r := range records {
		if !r.HasScale {
			return 0, fmt.Errorf("%w: %q", ErrScaleNotObserved, r.Label)
		}
		if i == 0 || r.ObservedScale > largest {
			largest = r.ObservedScale
		}
	}
	return largest, nil
}

func formatScale(s float64) string {
	if s == math.Trunc(s) && math.Abs(s) < 1e15 {
		return fmt.Sprintf("%.0f", s)
	}
	return fmt.Sprintf("%g", s)
}
