package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger. Responses are logged at info
// level, everything else at debug.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnInterpretStart(_ context.Context, codeLen int) {
	h.Logger.Debug("interpreting layout", "bytes", codeLen)
}

func (h *LogHooks) OnInterpretComplete(_ context.Context, ev InterpretEvent) {
	h.Logger.Debug("interpreted layout",
		"panels", ev.Panels,
		"valid", ev.Valid,
		"errors", ev.Errors,
		"warnings", ev.Warnings,
		"duration", ev.Duration)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("rendering", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, ev RenderEvent) {
	if ev.Err != nil {
		h.Logger.Debug("render failed", "formats", ev.Formats, "duration", ev.Duration, "err", ev.Err)
		return
	}
	h.Logger.Debug("rendered", "formats", ev.Formats, "duration", ev.Duration)
}

func (h *LogHooks) OnCacheHit(_ context.Context, kind CacheKind) {
	h.Logger.Debug("cache hit", "kind", kind)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, kind CacheKind) {
	h.Logger.Debug("cache miss", "kind", kind)
}

func (h *LogHooks) OnCacheSet(_ context.Context, kind CacheKind, size int) {
	h.Logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
