// Package observability provides hooks for metrics and tracing of
// co-simulation runs.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends to the driver. Consumers
// register hooks at startup to receive run, step and control events.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// A Prometheus implementation is available through [NewPrometheusHooks].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h, _ := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	    observability.SetRunHooks(h)
//	    // ... run co-simulations
//	}
//
// The driver calls hooks to emit events:
//
//	observability.Run().OnRunStart(ctx, runID, model)
//	// ... step loop ...
//	observability.Run().OnRunComplete(ctx, runID, steps, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Run Hooks
// =============================================================================

// RunHooks receives events from the co-simulation driver.
type RunHooks interface {
	// OnRunStart records a run whose session has been opened and started.
	OnRunStart(ctx context.Context, runID, model string)

	// OnStep records one completed solver step. sampled reports whether the
	// step fell on a sampling boundary.
	OnStep(ctx context.Context, runID string, step int, elapsedHours float64, sampled bool)

	// OnSettingChange records a setting change issued by control logic.
	OnSettingChange(ctx context.Context, runID, id string, value float64)

	// OnRunComplete records the end of a run, successful or not.
	OnRunComplete(ctx context.Context, runID string, steps int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnRunStart(context.Context, string, string)                       {}
func (NoopRunHooks) OnStep(context.Context, string, int, float64, bool)               {}
func (NoopRunHooks) OnSettingChange(context.Context, string, string, float64)         {}
func (NoopRunHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Fan-out
// =============================================================================

// Multi returns hooks that forward every event to each of hs in order.
// Nil entries are skipped.
func Multi(hs ...RunHooks) RunHooks {
	var m multiHooks
	for _, h := range hs {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

type multiHooks []RunHooks

func (m multiHooks) OnRunStart(ctx context.Context, runID, model string) {
	for _, h := range m {
		h.OnRunStart(ctx, runID, model)
	}
}

func (m multiHooks) OnStep(ctx context.Context, runID string, step int, elapsedHours float64, sampled bool) {
	for _, h := range m {
		h.OnStep(ctx, runID, step, elapsedHours, sampled)
	}
}

func (m multiHooks) OnSettingChange(ctx context.Context, runID, id string, value float64) {
	for _, h := range m {
		h.OnSettingChange(ctx, runID, id, value)
	}
}

func (m multiHooks) OnRunComplete(ctx context.Context, runID string, steps int, d time.Duration, err error) {
	for _, h := range m {
		h.OnRunComplete(ctx, runID, steps, d, err)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	runHooks RunHooks = NoopRunHooks{}
	hooksMu  sync.RWMutex
)

// SetRunHooks registers custom run hooks.
// This should be called once at application startup before any runs.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
	}
}

// Run returns the registered run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	runHooks = NoopRunHooks{}
}
