// Package observability lets callers watch a stitching run without the
// pipeline depending on them.
//
// Two event streams exist. [PipelineHooks] follows the stages of a run:
// directory listing, the resolved grid and the compositor call. The CLI uses
// it to show a spinner while the compositor works. [ProcessHooks] follows
// external programs the tool spawns, such as montage.
//
// Hooks are process-wide. Install them before a run and call [Reset] when
// done:
//
//	observability.SetPipelineHooks(&spinnerHooks{})
//	defer observability.Reset()
//
// Emitters fetch the current hooks at the call site:
//
//	hooks := observability.Pipeline()
//	hooks.OnDiscoverStart(ctx, dir)
//	m, err := tiles.Discover(dir, opts)
//	hooks.OnDiscoverComplete(ctx, dir, len(m), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the stitching pipeline.
type PipelineHooks interface {
	// Discovery events
	OnDiscoverStart(ctx context.Context, dir string)
	OnDiscoverComplete(ctx context.Context, dir string, tileCount int, duration time.Duration, err error)

	// OnResolve records the grid chosen for rendering. missing is the number
	// of cells that will be filled with the placeholder image.
	OnResolve(ctx context.Context, columns, rows, missing int, partial bool)

	// Composite events
	OnCompositeStart(ctx context.Context, compositor string, cells int)
	OnCompositeComplete(ctx context.Context, compositor string, status int, duration time.Duration, err error)
}

// =============================================================================
// Process Hooks
// =============================================================================

// ProcessHooks receives events about external programs the tool spawns.
type ProcessHooks interface {
	// OnSpawn records a process about to start with argc arguments.
	OnSpawn(ctx context.Context, name string, argc int)

	// OnExit records a process that finished or failed to start.
	OnExit(ctx context.Context, name string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDiscoverStart(context.Context, string) {}
func (NoopPipelineHooks) OnDiscoverComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnResolve(context.Context, int, int, int, bool)       {}
func (NoopPipelineHooks) OnCompositeStart(context.Context, string, int)        {}
func (NoopPipelineHooks) OnCompositeComplete(context.Context, string, int, time.Duration, error) {
}

// NoopProcessHooks is a no-op implementation of ProcessHooks.
type NoopProcessHooks struct{}

func (NoopProcessHooks) OnSpawn(context.Context, string, int)                {}
func (NoopProcessHooks) OnExit(context.Context, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	processHooks  ProcessHooks  = NoopProcessHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks installs h for subsequent runs. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetProcessHooks installs h for subsequent process spawns. A nil h is
// ignored.
func SetProcessHooks(h ProcessHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		processHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Process returns the registered process hooks.
func Process() ProcessHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return processHooks
}

// Reset restores both hook sets to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	processHooks = NoopProcessHooks{}
}
