package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageview/pkg/observability"
)

// debugHooks forwards render, canvas, and cache events to the logger. They
// are installed only in verbose mode.
type debugHooks struct {
	logger *log.Logger
}

func installDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l.WithPrefix("hooks")}
	observability.SetRenderHooks(h)
	observability.SetCanvasHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnPassStart(_ context.Context, docID, mode string) {
	h.logger.Debug("pass start", "doc", short(docID), "mode", mode)
}

func (h debugHooks) OnPassComplete(_ context.Context, docID, mode string, pages int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("pass failed", "doc", short(docID), "mode", mode, "err", err)
		return
	}
	h.logger.Debug("pass done", "doc", short(docID), "mode", mode, "pages", pages, "took", d.Round(time.Microsecond))
}

func (h debugHooks) OnRescale(_ context.Context, docID string, width, height int) {
	h.logger.Debug("rescale", "doc", short(docID), "width", width, "height", height)
}

func (h debugHooks) OnUpdateStart(_ context.Context, gen uint64, pages int) {
	h.logger.Debug("canvas update", "gen", gen, "pages", pages)
}

func (h debugHooks) OnUpdateComplete(_ context.Context, gen uint64, d time.Duration, err error) {
	h.logger.Debug("canvas done", "gen", gen, "took", d.Round(time.Microsecond), "err", err)
}

func (h debugHooks) OnUpdateStale(_ context.Context, gen uint64) {
	h.logger.Debug("canvas stale", "gen", gen)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var (
	_ observability.RenderHooks = debugHooks{}
	_ observability.CanvasHooks = debugHooks{}
	_ observability.CacheHooks  = debugHooks{}
)
