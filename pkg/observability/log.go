package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// Install registers [LogHooks] on l for all event categories.
func Install(l *log.Logger) {
	h := LogHooks{Logger: l}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetStoreHooks(h)
}

func (h LogHooks) OnParseStart(_ context.Context, source string) {
	h.Logger.Debug("parse start", "source", source)
}

func (h LogHooks) OnParseComplete(_ context.Context, source string, elements, shaped int, d time.Duration, err error) {
	h.done("parse", err, "source", source, "elements", elements, "shaped", shaped, "duration", d)
}

func (h LogHooks) OnLayoutStart(_ context.Context, elements int) {
	h.Logger.Debug("layout start", "elements", elements)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, mode string, d time.Duration, err error) {
	h.done("layout", err, "mode", mode, "duration", d)
}

func (h LogHooks) OnExportStart(_ context.Context, formats []string) {
	h.Logger.Debug("export start", "formats", formats)
}

func (h LogHooks) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("export", err, "formats", formats, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h LogHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	h.done("store "+op, err, "backend", backend, "duration", d)
}

func (h LogHooks) done(what string, err error, keyvals ...any) {
	if err != nil {
		h.Logger.Debug(what+" failed", append(keyvals, "error", err)...)
		return
	}
	h.Logger.Debug(what+" done", keyvals...)
}
