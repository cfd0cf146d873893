// Package cache provides content-addressed caching for layout and render
// artifacts.
//
// Layout computation is cheap but rendering is not: raster export shells
// out to external tooling and Graphviz rendering crosses a wasm boundary.
// The pipeline therefore caches per stage, keyed by content hashes so a
// changed tree, collapse set, or spacing constant can never serve a stale
// artifact.
//
// Two implementations are provided: [FileCache] for CLI use (XDG cache
// directory) and [NullCache] to disable caching entirely.
package cache

import (
	"context"
	"time"
)

// Default TTLs per pipeline stage. Layouts are cheap to recompute so
// they expire sooner than rendered artifacts, which may have shelled out
// to external tooling.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface for artifact caching backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (0 means no expiry).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the inputs that distinguish one layout computation
// from another with the same tree.
type LayoutKeyOpts struct {
	Collapsed  []string
	LevelWidth float64
	NodeHeight float64
}

// ArtifactKeyOpts are the inputs that distinguish one rendered artifact
// from another with the same layout.
type ArtifactKeyOpts struct {
	Format string
	Style  string
	Engine string
	Scale  float64
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey keys a computed layout by the tree's content hash plus
	// collapse state and spacing.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the layout hash plus
	// render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts.Collapsed, opts.LevelWidth, opts.NodeHeight)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts.Format, opts.Style, opts.Engine, opts.Scale)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses it to namespace cached artifacts per owner so one
// tenant's private trees never collide with another's.
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
