package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/featexport/pkg/observability"
)

// progressHooks turns batch events into spinner messages.
type progressHooks struct {
	observability.NoopBatchHooks

	mu       sync.Mutex
	spinner  *Spinner
	total    int
	mode     string
	pass     string
	seen     int
	exported int
	skipped  int
}

func newProgressHooks(s *Spinner) *progressHooks {
	return &progressHooks{spinner: s}
}

func (h *progressHooks) OnRunStart(_ context.Context, _ string, layer string, features int, mode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total = features
	h.mode = mode
	h.update(fmt.Sprintf("Exporting %d features of %s (%s)", features, layer, mode))
}

func (h *progressHooks) OnPass(_ context.Context, _ string, pass string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pass = pass
	h.seen = 0
}

func (h *progressHooks) OnFeature(_ context.Context, _ string, _ string, label string, _ float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen++
	verb := "Exporting"
	if h.pass == "per-feature" && h.mode == "proportional" {
		verb = "Measuring"
	}
	h.update(fmt.Sprintf("%s %d/%d: %s", verb, h.seen, h.total, label))
}

func (h *progressHooks) OnExport(_ context.Context, _ string, _ string, skipped bool, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if skipped {
		h.skipped++
	} else {
		h.exported++
	}
}

func (h *progressHooks) counts() (exported, skipped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exported, h.skipped
}

func (h *progressHooks) update(msg string) {
	if h.spinner != nil {
		h.spinner.SetMessage(msg)
	}
}
