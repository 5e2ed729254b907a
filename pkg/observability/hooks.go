// Package observability provides hooks for metrics, tracing, and logging.
//
// The engine itself stays free of any metrics backend. Consumers register
// hooks at startup and receive events about pipeline stages, structural
// edits, cache traffic and HTTP requests served by the API.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default. Main
// registers real implementations; libraries only ever call the getters:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetEditHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
//	observability.Pipeline().OnFlattenStart(ctx, nodeCount)
//	// ... flatten ...
//	observability.Pipeline().OnFlattenComplete(ctx, graphNodes, duration, err)
//
// [LogHooks] implements every interface by writing debug lines to a
// charmbracelet/log logger.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the decode → flatten → layout → render
// pipeline.
type PipelineHooks interface {
	// Decode events
	OnDecodeStart(ctx context.Context, format string, size int)
	OnDecodeComplete(ctx context.Context, format string, nodeCount int, duration time.Duration, err error)

	// Flatten events
	OnFlattenStart(ctx context.Context, nodeCount int)
	OnFlattenComplete(ctx context.Context, graphNodes int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, direction string, graphNodes int)
	OnLayoutComplete(ctx context.Context, direction string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events for structural edits. Edits are synchronous
// and take no context.
type EditHooks interface {
	// OnEditStart records an edit about to be applied.
	OnEditStart(op, desc string)

	// OnEditComplete records the outcome. applied is false for rejected
	// edits, in which case err carries the reason.
	OnEditComplete(op string, applied bool, err error)
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

	// OnCacheSet records a cache write of size bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for it.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecodeStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnDecodeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnFlattenStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnFlattenComplete(context.Context, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnEditStart(string, string)         {}
func (NoopEditHooks) OnEditComplete(string, bool, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	editHooks     EditHooks     = NoopEditHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetEditHooks registers custom edit hooks.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Edit returns the registered edit hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	editHooks = NoopEditHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
