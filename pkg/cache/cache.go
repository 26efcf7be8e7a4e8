// Package cache stores engine responses so that repeated render passes over
// an unchanged document revision skip the layout engine.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the preview server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that fragment keys depend on both the
// document revision and the exact viewport window.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the lifetime of cached engine responses.
const DefaultTTL = 24 * time.Hour
