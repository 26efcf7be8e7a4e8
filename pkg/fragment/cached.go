package fragment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageview/pkg/cache"
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/observability"
)

// RevisionedSource is a Source whose output depends only on its revision.
type RevisionedSource interface {
	Source
	Revisioned
}

// Cached serves engine responses from a cache when the revision and window
// match a previous request. Cache failures are logged and fall through to
// the engine.
type Cached struct {
	src    RevisionedSource
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps src. Nil cache, keyer, or logger select the null cache,
// the default keyer, and log.Default().
func NewCached(src RevisionedSource, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{src: src, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// PagesInfo implements Source.
func (c *Cached) PagesInfo(ctx context.Context) ([]geom.Size, error) {
	key := c.keyer.PagesKey(c.src.Revision())
	if data, ok := c.lookup(ctx, key, "pages"); ok {
		var pages []geom.Size
		if err := json.Unmarshal(data, &pages); err == nil {
			return pages, nil
		}
	}

	pages, err := c.src.PagesInfo(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(pages); err == nil {
		c.store(ctx, key, "pages", data)
	}
	return pages, nil
}

// Fragment implements Source.
func (c *Cached) Fragment(ctx context.Context, w geom.Window) (string, error) {
	key := c.keyer.FragmentKey(c.src.Revision(), w)
	if data, ok := c.lookup(ctx, key, "fragment"); ok {
		return string(data), nil
	}

	markup, err := c.src.Fragment(ctx, w)
	if err != nil {
		return "", err
	}
	c.store(ctx, key, "fragment", []byte(markup))
	return markup, nil
}

// Revision implements Revisioned.
func (c *Cached) Revision() string { return c.src.Revision() }

func (c *Cached) lookup(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (c *Cached) store(ctx context.Context, key, keyType string, data []byte) {
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

var _ RevisionedSource = (*Cached)(nil)
