// Package observability provides hooks for progress reporting and metrics.
//
// This package enables optional instrumentation of batch runs without adding
// hard dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about passes, features and exports.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define a hook interface for batch events
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBatchHooks(&myBatchHooks{})
//	    // ... run application
//	}
//
// The batch runner calls hooks to emit events:
//
//	observability.Batch().OnRunStart(ctx, runID, layer, features, mode)
//	// ... render and export ...
//	observability.Batch().OnRunComplete(ctx, runID, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// BatchHooks receives events from a batch export run.
type BatchHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID, layer string, features int, mode string)
	OnRunComplete(ctx context.Context, runID string, duration time.Duration, err error)

	// OnPass fires when the run enters a new pass (per-feature, reduction, uniform export).
	OnPass(ctx context.Context, runID, pass string)

	// OnFeature fires after a feature's view has been applied and refreshed.
	OnFeature(ctx context.Context, runID, pass, label string, scale float64)

	// OnExport fires after each export attempt, skipped or not.
	OnExport(ctx context.Context, runID, path string, skipped bool, duration time.Duration)
}

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnRunStart(context.Context, string, string, int, string)       {}
func (NoopBatchHooks) OnRunComplete(context.Context, string, time.Duration, error)   {}
func (NoopBatchHooks) OnPass(context.Context, string, string)                        {}
func (NoopBatchHooks) OnFeature(context.Context, string, string, string, float64)    {}
func (NoopBatchHooks) OnExport(context.Context, string, string, bool, time.Duration) {}

var (
	batchHooks BatchHooks = NoopBatchHooks{}
	hooksMu    sync.RWMutex
)

// SetBatchHooks registers custom batch hooks.
// This should be called once at application startup before any batch runs.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Reset restores the hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	batchHooks = NoopBatchHooks{}
}
