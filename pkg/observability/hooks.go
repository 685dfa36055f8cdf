// Package observability lets applications watch panelgrid at work.
//
// The pipeline reports each layout interpretation and artifact render, the
// cache layer reports hits, misses and writes per [CacheKind], and the HTTP
// service reports each routed request. Nothing is recorded until hooks are
// registered; the defaults are no-ops.
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	defer observability.Reset()
//
// Hooks are process-wide and may be swapped at any time. Implementations must
// be safe for concurrent use: artifacts render in parallel.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// CacheKind names the two layers the pipeline caches.
type CacheKind string

const (
	// CacheOutcome entries hold interpreted outcomes keyed by layout code.
	CacheOutcome CacheKind = "outcome"
	// CacheArtifact entries hold rendered bytes keyed by outcome and format.
	CacheArtifact CacheKind = "artifact"
)

// InterpretEvent describes one finished interpretation of a layout code.
type InterpretEvent struct {
	CodeLen  int
	Panels   int // top-level panels of the grid, 0 when there is none
	Errors   int
	Warnings int
	Valid    bool
	Duration time.Duration
}

// RenderEvent describes one batch of artifacts rendered from an outcome.
type RenderEvent struct {
	Formats  []string
	Duration time.Duration
	Err      error
}

// PipelineHooks receives interpretation and render events.
type PipelineHooks interface {
	OnInterpretStart(ctx context.Context, codeLen int)
	OnInterpretComplete(ctx context.Context, ev InterpretEvent)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, ev RenderEvent)
}

// CacheHooks receives outcome and artifact cache events.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind CacheKind)
	OnCacheMiss(ctx context.Context, kind CacheKind)
	OnCacheSet(ctx context.Context, kind CacheKind, size int)
}

// HTTPHooks receives events from the HTTP service. OnRequest runs before
// routing and sees the raw path; OnResponse sees the matched route pattern,
// such as "/api/layout/templates/{name}", or the raw path when nothing
// matched.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, status int, d time.Duration)
}

// NoopPipelineHooks ignores every event. Embed it to implement a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnInterpretStart(context.Context, int)               {}
func (NoopPipelineHooks) OnInterpretComplete(context.Context, InterpretEvent) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, RenderEvent)       {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, CacheKind)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, CacheKind)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, CacheKind, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// hookSet is replaced as a whole so readers never see a partial update.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var noopSet = hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}

var current atomic.Pointer[hookSet]

func init() {
	Reset()
}

func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

func Pipeline() PipelineHooks { return current.Load().pipeline }

func Cache() CacheHooks { return current.Load().cache }

func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	s := noopSet
	current.Store(&s)
}
