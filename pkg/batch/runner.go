package batch

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/featexport/pkg/catalog"
	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/export"
	"github.com/matzehuels/featexport/pkg/host"
	"github.com/matzehuels/featexport/pkg/observability"
	"github.com/matzehuels/featexport/pkg/workspace"
)

// Runner executes batch exports against a host.
//
// The Runner keeps no state between runs. Every run captures the host view
// before touching it and restores it on every exit path.
type Runner struct {
	Host   host.Host
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(h host.Host, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Host: h, Logger: logger}
}

// Report summarizes a finished run. It is kept in memory only.
type Report struct {
	RunID       string
	Layer       string
	Frame       string
	Mode        FillMode
	Features    int
	Exported    int
	Skipped     int
	CommonScale float64 // 0 in fill mode
	Duration    time.Duration
	Results     []export.Result
}

// Run exports one image per feature of cfg.Layer.
//
// The host's layer filter and frame extent are restored before Run returns,
// whether it succeeds or not; a failed restore is joined onto the returned
// error. On error the returned report holds whatever was exported so far.
func (r *Runner) Run(ctx context.Context, cfg Config) (report *Report, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])
	report = &Report{RunID: runID, Layer: cfg.Layer, Mode: cfg.FillMode}

	hooks := observability.Batch()
	defer func() {
		report.Duration = time.Since(start)
		hooks.OnRunComplete(ctx, runID, report.Duration, err)
	}()

	frame, err := r.selectFrame(logger)
	if err != nil {
		return report, err
	}
	report.Frame = frame.Name()

	guard, err := workspace.Capture(r.Host, cfg.Layer, frame)
	if err != nil {
		return report, err
	}
	defer func() {
		if rerr := guard.Restore(); rerr != nil {
			logger.Error("failed to restore map view", "err", rerr)
			err = stderrors.Join(err, rerr)
		}
	}()

	existing := guard.Snapshot().Filter
	if existing != "" {
		logger.Info("Layer already has a filter; it is combined with each feature predicate", "filter", existing)
	}

	records, err := catalog.Build(ctx, r.Host, cfg.Layer, cfg.UniqueField)
	if err != nil {
		return report, err
	}
	report.Features = len(records)
	logger.Infof("Processing %d features", len(records))
	if len(records) == 0 && cfg.FillMode == FillModeFill {
		logger.Warn("layer yielded no features; nothing to export", "layer", cfg.Layer)
	}

	hooks.OnRunStart(ctx, runID, cfg.Layer, len(records), string(cfg.FillMode))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return report, errors.Wrap(errors.ErrCodeInvalidInput, err, "create output directory %s", cfg.OutputDir)
	}

	u := NewUnifier(r.Host, frame, export.New(r.Host, logger), cfg, records, FilterPrefix(existing), logger)
	u.runID = runID
	err = u.Run(ctx)

	report.CommonScale = u.CommonScale()
	report.Results = u.Results()
	for _, res := range report.Results {
		switch res.Status {
		case export.StatusExported:
			report.Exported++
		case export.StatusSkipped:
			report.Skipped++
		}
	}
	if err != nil {
		logger.Error("batch aborted", "state", u.State(), "exported", report.Exported, "err", err)
		return report, err
	}
	logger.Info("batch complete", "exported", report.Exported, "skipped", report.Skipped)
	return report, nil
}

func (r *Runner) selectFrame(logger *log.Logger) (host.Frame, error) {
	frames, err := r.Host.DisplayFrames()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostFailure, err, "list display frames")
	}
	if len(frames) == 0 {
		return nil, errors.New(errors.ErrCodeFrameNotFound, "map has no display frames")
	}
	if len(frames) > 1 {
		logger.Warn("map has multiple display frames; using the first", "frame", frames[0].Name(), "count", len(frames))
	}
	return frames[0], nil
}
