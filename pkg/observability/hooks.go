// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about render passes, canvas updates, and
// fragment cache operations.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCanvasHooks(&myCanvasHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnPassStart(ctx, docID, "doc")
//	// ... window, fragment, reconcile, layout ...
//	observability.Render().OnPassComplete(ctx, docID, "doc", pages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from document render passes.
type RenderHooks interface {
	// OnPassStart records the start of a full render pass.
	OnPassStart(ctx context.Context, docID, mode string)
	// OnPassComplete records the end of a render pass with the number of
	// pages laid out.
	OnPassComplete(ctx context.Context, docID, mode string, pages int, duration time.Duration, err error)
	// OnRescale records a rescale that changed the applied pixel size.
	OnRescale(ctx context.Context, docID string, width, height int)
}

// =============================================================================
// Canvas Hooks
// =============================================================================

// CanvasHooks receives events from the canvas mixin controller.
type CanvasHooks interface {
	// OnUpdateStart records a dispatched asynchronous canvas update.
	OnUpdateStart(ctx context.Context, generation uint64, pages int)
	// OnUpdateComplete records a completion whose generation was current.
	OnUpdateComplete(ctx context.Context, generation uint64, duration time.Duration, err error)
	// OnUpdateStale records a completion discarded because a newer update
	// superseded it.
	OnUpdateStale(ctx context.Context, generation uint64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnPassStart(context.Context, string, string) {}
func (NoopRenderHooks) OnPassComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopRenderHooks) OnRescale(context.Context, string, int, int) {}

// NoopCanvasHooks is a no-op implementation of CanvasHooks.
type NoopCanvasHooks struct{}

func (NoopCanvasHooks) OnUpdateStart(context.Context, uint64, int)                     {}
func (NoopCanvasHooks) OnUpdateComplete(context.Context, uint64, time.Duration, error) {}
func (NoopCanvasHooks) OnUpdateStale(context.Context, uint64)                          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	canvasHooks CanvasHooks = NoopCanvasHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render pass.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCanvasHooks registers custom canvas hooks.
func SetCanvasHooks(h CanvasHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		canvasHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Canvas returns the registered canvas hooks.
func Canvas() CanvasHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return canvasHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	canvasHooks = NoopCanvasHooks{}
	cacheHooks = NoopCacheHooks{}
}
