package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line. Failures are logged at warn
// level, except rejected edits which are expected user input.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ EditHooks     = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

func (h *LogHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "took", d.Round(time.Microsecond))
	if err != nil {
		h.Logger.Warn(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(stage+" done", kv...)
}

func (h *LogHooks) OnDecodeStart(_ context.Context, format string, size int) {
	h.Logger.Debug("decode", "format", format, "bytes", size)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, format string, nodeCount int, d time.Duration, err error) {
	h.done("decode", d, err, "format", format, "nodes", nodeCount)
}

func (h *LogHooks) OnFlattenStart(_ context.Context, nodeCount int) {
	h.Logger.Debug("flatten", "nodes", nodeCount)
}

func (h *LogHooks) OnFlattenComplete(_ context.Context, graphNodes int, d time.Duration, err error) {
	h.done("flatten", d, err, "graph_nodes", graphNodes)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, direction string, graphNodes int) {
	h.Logger.Debug("layout", "direction", direction, "graph_nodes", graphNodes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, direction string, d time.Duration, err error) {
	h.done("layout", d, err, "direction", direction)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h *LogHooks) OnEditStart(op, desc string) {
	h.Logger.Debug("edit", "op", op, "edit", desc)
}

func (h *LogHooks) OnEditComplete(op string, applied bool, err error) {
	if err != nil {
		h.Logger.Info("edit rejected", "op", op, "reason", err)
		return
	}
	h.Logger.Debug("edit applied", "op", op, "changed", applied)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}
