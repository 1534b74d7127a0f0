// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. The orchestrator calls
// the registered hooks; main registers a backend (see internal/metrics for
// the Prometheus one) before starting a run.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTransitionHooks(&myTransitionHooks{})
//	    observability.SetFrameHooks(&myFrameHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Transition().OnTransitionStart(ctx, index)
//	// ... synthesize, checkpoint, render ...
//	observability.Transition().OnTransitionComplete(ctx, index, "complete", elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Transition Hooks
// =============================================================================

// TransitionHooks receives per-transition events from the orchestrator.
type TransitionHooks interface {
	OnTransitionStart(ctx context.Context, index int)
	// OnTransitionComplete fires once per transition with its final status
	// ("complete", "failed" or "skipped").
	OnTransitionComplete(ctx context.Context, index int, status string, duration time.Duration, err error)

	// Checkpoint events
	OnCheckpointLoaded(ctx context.Context, index int)
	OnCheckpointWritten(ctx context.Context, index int, attempts int)

	// OnInfeasible records a discarded synthesis attempt.
	OnInfeasible(ctx context.Context, index, attempt int, reason string)
}

// =============================================================================
// Frame Hooks
// =============================================================================

// FrameHooks receives per-frame events.
type FrameHooks interface {
	// OnFrameRendered records a frame written by the renderer.
	OnFrameRendered(ctx context.Context, index, frame int, duration time.Duration)

	// OnFrameSkipped records a frame whose image already existed.
	OnFrameSkipped(ctx context.Context, index, frame int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTransitionHooks is a no-op implementation of TransitionHooks.
type NoopTransitionHooks struct{}

func (NoopTransitionHooks) OnTransitionStart(context.Context, int) {}
func (NoopTransitionHooks) OnTransitionComplete(context.Context, int, string, time.Duration, error) {
}
func (NoopTransitionHooks) OnCheckpointLoaded(context.Context, int)        {}
func (NoopTransitionHooks) OnCheckpointWritten(context.Context, int, int)  {}
func (NoopTransitionHooks) OnInfeasible(context.Context, int, int, string) {}

// NoopFrameHooks is a no-op implementation of FrameHooks.
type NoopFrameHooks struct{}

func (NoopFrameHooks) OnFrameRendered(context.Context, int, int, time.Duration) {}
func (NoopFrameHooks) OnFrameSkipped(context.Context, int, int)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	transitionHooks TransitionHooks = NoopTransitionHooks{}
	frameHooks      FrameHooks      = NoopFrameHooks{}
	hooksMu         sync.RWMutex
)

// SetTransitionHooks registers custom transition hooks.
// This should be called once at application startup before any run.
func SetTransitionHooks(h TransitionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transitionHooks = h
	}
}

// SetFrameHooks registers custom frame hooks.
func SetFrameHooks(h FrameHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		frameHooks = h
	}
}

// Transition returns the registered transition hooks.
func Transition() TransitionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transitionHooks
}

// Frame returns the registered frame hooks.
func Frame() FrameHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return frameHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	transitionHooks = NoopTransitionHooks{}
	frameHooks = NoopFrameHooks{}
}
