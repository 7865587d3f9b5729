// Package export writes the host's current view to an image file.
//
// [Exporter] never changes the view: whatever filter, extent and scale the
// host holds at call time is what gets rasterized. The only decision it makes
// on its own is the overwrite policy:
//
//	res, err := exp.Export(frame, export.Request{
//	    Format:    export.FormatJPEG,
//	    Path:      export.FileName(dir, rec.FilenameStem, export.FormatJPEG),
//	    DPI:       150,
//	    Quality:   80,
//	    Overwrite: false,
//	})
//	if res.Status == export.StatusSkipped {
//	    // file existed; nothing written
//	}
package export

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/host"
)

// Status is the outcome of a single export.
type Status int

const (
	StatusExported Status = iota
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusExported:
		return "exported"
	case StatusSkipped:
		return "skipped"
	}
	return "unknown"
}

// Request describes one rasterization.
type Request struct {
	Format    Format
	Path      string
	DPI       int
	Quality   int // JPEG only
	Overwrite bool
}

// Result reports what Export did.
type Result struct {
	Status   Status
	Path     string
	Duration time.Duration
}

// Exporter rasterizes the current view through a host.Rasterizer.
type Exporter struct {
	Raster host.Rasterizer
	Logger *log.Logger
}

// New creates an Exporter. A nil logger discards output.
func New(r host.Rasterizer, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Exporter{Raster: r, Logger: logger}
}

// Export writes the view of frame according to req.
//
// An existing file with Overwrite unset yields StatusSkipped and a warning.
// Unsupported formats fail with *errors.UnsupportedFormatError; rasterizer
// failures are wrapped as HOST_FAILURE.
func (e *Exporter) Export(frame host.Frame, req Request) (Result, error) {
	res := Result{Path: req.Path}
	if !req.Format.Valid() {
		return res, &errors.UnsupportedFormatError{Format: string(req.Format)}
	}

	if !req.Overwrite {
		exists, err := fileExists(req.Path)
		if err != nil {
			return res, errors.Wrap(errors.ErrCodeHostFailure, err, "stat %s", req.Path)
		}
		if exists {
			e.Logger.Warn("output image already exists and will not be overwritten", "path", req.Path)
			res.Status = StatusSkipped
			return res, nil
		}
	}

	start := time.Now()
	var err error
	switch req.Format {
	case FormatPNG:
		err = e.Raster.ExportPNG(frame, req.Path, req.DPI)
	case FormatJPEG:
		err = e.Raster.ExportJPEG(frame, req.Path, req.DPI, req.Quality)
	}
	if err != nil {
		return res, errors.Wrap(errors.ErrCodeHostFailure, err, "export %s", req.Path)
	}
	res.Status = StatusExported
	res.Duration = time.Since(start)
	e.Logger.Debug("exported image", "path", req.Path, "format", req.Format, "duration", res.Duration)
	return res, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
