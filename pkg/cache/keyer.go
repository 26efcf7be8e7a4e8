package cache

import (
	"github.com/matzehuels/pageview/pkg/geom"
)

// Keyer builds cache keys for engine responses.
type Keyer interface {
	// PagesKey keys the page-metrics list of a document revision.
	PagesKey(revision string) string
	// FragmentKey keys the fragment rendered for a window of a revision.
	FragmentKey(revision string, w geom.Window) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PagesKey implements Keyer.
func (DefaultKeyer) PagesKey(revision string) string {
	return hashKey("pages", revision)
}

// FragmentKey implements Keyer. The window is keyed by its formatted form so
// the full-plane sentinel (infinite bounds) hashes deterministically.
func (DefaultKeyer) FragmentKey(revision string, w geom.Window) string {
	return hashKey("fragment", revision, w.String())
}

// ScopedKeyer wraps a Keyer with a prefix, isolating the entries of one
// document instance on a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PagesKey implements Keyer.
func (k *ScopedKeyer) PagesKey(revision string) string {
	return k.prefix + k.inner.PagesKey(revision)
}

// FragmentKey implements Keyer.
func (k *ScopedKeyer) FragmentKey(revision string, w geom.Window) string {
	return k.prefix + k.inner.FragmentKey(revision, w)
}
