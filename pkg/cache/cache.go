// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several machines or CI runners
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from content hashes and options, so a changed
// history or a changed option never hits a stale entry:
//
//	layoutKey := keyer.LayoutKey(cache.Hash(logJSON), opts)
//	artifactKey := keyer.ArtifactKey(cache.Hash(layoutJSON), artifactOpts)
//
// Use [NewScopedKeyer] to give different projects separate namespaces in a
// shared backend.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry. Get reports a miss with
// ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (removed int, err error)
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey is the key of a layout computed from a commit log.
	LayoutKey(logHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of an output rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	VizType     string   `json:"viz_type"`
	RowSpacing  float64  `json:"row_spacing"`
	LaneSpacing float64  `json:"lane_spacing"`
	Margin      float64  `json:"margin"`
	NodeWidth   float64  `json:"node_width"`
	NodeHeight  float64  `json:"node_height"`
	Release     string   `json:"release"`
	Radius      float64  `json:"radius"`
	StrokeWidth float64  `json:"stroke_width"`
	Palette     []string `json:"palette,omitempty"`
	Exclude     []string `json:"exclude,omitempty"`
	Selected    []string `json:"selected,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Interactive bool    `json:"interactive"`
	Labels      bool    `json:"labels"`
	Detailed    bool    `json:"detailed"`
	Background  string  `json:"background,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes options into keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(logHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", logHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
