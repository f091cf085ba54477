package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/cache"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/history"
	"github.com/matzehuels/gitlanes/pkg/observability"
)

const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL and ArtifactTTL override the cache defaults when non-zero.
	LayoutTTL   time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner. A nil keyer selects cache.DefaultKeyer, a nil
// cache disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	src := source(opts)
	observability.Pipeline().OnLoadStart(ctx, src)
	loadStart := time.Now()
	commits, err := Load(ctx, opts)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, src, len(commits), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	r.Logger.Info("loaded history",
		"source", src,
		"commits", len(commits),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, stats, hit, err := r.layout(ctx, commits, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	stats.LoadTime = result.Stats.LoadTime
	stats.LayoutTime = time.Since(layoutStart)
	result.Stats = stats
	result.Layout = layout
	result.PassID = layout.PassID
	result.LogHash = logHash(commits)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"lanes", layout.Lanes,
		"rows", len(layout.Rows),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.render(ctx, layout, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout loads and lays out a history without rendering. The boolean
// reports whether the layout came from the cache.
func (r *Runner) Layout(ctx context.Context, opts Options) (graph.Layout, Stats, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, Stats{}, false, fmt.Errorf("invalid options: %w", err)
	}
	commits, err := Load(ctx, opts)
	if err != nil {
		return graph.Layout{}, Stats{}, false, fmt.Errorf("load: %w", err)
	}
	return r.layout(ctx, commits, opts)
}

// layout returns a cached layout for the same commits and options, or
// computes and caches a new one. A cached layout keeps the pass ID of the
// pass that produced it.
func (r *Runner) layout(ctx context.Context, commits history.Log, opts Options) (graph.Layout, Stats, bool, error) {
	key := r.Keyer.LayoutKey(logHash(commits), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return l, layoutStats(l, len(commits)), true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	l, stats, err := GenerateLayout(ctx, commits, opts)
	if err != nil {
		return graph.Layout{}, Stats{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, keyTypeLayout, key, data, ttlOr(r.LayoutTTL, cache.LayoutTTL))
	}
	return l, stats, false, nil
}

// render returns the artifacts of l, from cache when every requested
// format is cached.
func (r *Runner) render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	rendered, err := Render(l, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, keyTypeArtifact, key, data, ttlOr(r.ArtifactTTL, cache.ArtifactTTL))
	}
	return rendered, false, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func layoutStats(l graph.Layout, commits int) Stats {
	var connectors int
	for _, e := range l.Edges {
		if e.D != "" {
			connectors++
		}
	}
	return Stats{
		Commits:    commits,
		Lanes:      l.Lanes,
		Rows:       len(l.Rows),
		Edges:      len(l.Edges),
		Connectors: connectors,
	}
}

func logHash(commits history.Log) string {
	var buf []byte
	for _, c := range commits {
		buf = append(buf, c.ID...)
		for _, p := range c.Parents {
			buf = append(buf, ' ')
			buf = append(buf, p...)
		}
		buf = append(buf, '\n')
	}
	return cache.Hash(buf)
}

func ttlOr(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
