// Package cache stores accepted card layouts between runs.
//
// Finding a layout can take thousands of attempts, so accepted cards are
// cached under a key derived from everything that determines the result: the
// card number and symbols, the layout parameters and a digest of the symbol
// images. Change any of these and the key changes with it.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().LayoutKey(opts)
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long an accepted layout stays cached.
const TTLLayout = 90 * 24 * time.Hour

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// LayoutKeyOpts identifies one card layout.
type LayoutKeyOpts struct {
	Card    int      `json:"card"`
	Symbols []string `json:"symbols"`
	// Params is any JSON-serialisable form of the layout parameters.
	Params any `json:"params"`
	// AssetDigest summarises the symbol images the layout was computed from.
	AssetDigest string `json:"asset_digest"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(opts LayoutKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256 of opts>".
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

// ScopedKeyer prefixes every key, giving separate decks separate namespaces
// in one cache directory.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer if inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(opts)
}
