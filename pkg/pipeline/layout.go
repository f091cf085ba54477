package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gitlanes/pkg/connector"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/history"
	"github.com/matzehuels/gitlanes/pkg/lanes"
	"github.com/matzehuels/gitlanes/pkg/observability"
	"github.com/matzehuels/gitlanes/pkg/render/nodelink"
	"github.com/matzehuels/gitlanes/pkg/visual"
)

// GenerateLayout runs one layout pass over commits, which must be ordered
// parents first. Every call starts from an empty grid and mints a new pass
// ID, so nothing of an earlier pass leaks into the result.
//
// Node-link layouts additionally carry the DOT source of the commit DAG.
func GenerateLayout(ctx context.Context, commits history.Log, opts Options) (graph.Layout, Stats, error) {
	opts.SetDefaults()
	var stats Stats

	policy, err := lanes.ParseReleasePolicy(opts.Release)
	if err != nil {
		return graph.Layout{}, stats, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(commits))
	start := time.Now()
	res, err := lanes.Layout(commits, lanes.Options{
		Spacing: opts.Spacing(),
		Release: policy,
		Logger:  opts.Logger,
	})
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, time.Since(start), err)
		return graph.Layout{}, stats, err
	}
	rows := res.Grid.Rows()
	hooks.OnLayoutComplete(ctx, res.Lanes(), rows, time.Since(start), nil)

	start = time.Now()
	copts := connector.Options{
		Spacing: res.Spacing,
		Palette: connector.Palette(opts.Palette),
		Radius:  opts.Radius,
		Logger:  opts.Logger,
	}
	paths, err := connector.BuildAll(ctx, res.Edges, copts, opts.Concurrency)
	if err != nil {
		return graph.Layout{}, stats, fmt.Errorf("build connectors: %w", err)
	}
	hooks.OnConnectorsBuilt(ctx, len(paths), len(res.Edges)-len(paths), time.Since(start))

	l := graph.FromResult(res, paths, graph.ExportOptions{
		PassID:  uuid.NewString(),
		Palette: connector.Palette(opts.Palette),
	})

	c := visual.NewController(
		visual.WithLogger(opts.Logger),
		visual.WithBaseWidth(opts.StrokeWidth),
	)
	graph.Register(c, l)
	if unknown := graph.Select(c, l, opts.Selected...); len(unknown) > 0 {
		opts.Logger.Warn("selected commits not in layout", "commits", unknown)
	}
	graph.ApplyStyles(c, &l)

	if opts.IsNodelink() {
		l.VizType = graph.VizTypeNodelink
		l.DOT = nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})
	}

	stats = Stats{
		Commits:    len(commits),
		Lanes:      l.Lanes,
		Rows:       rows,
		Edges:      len(res.Edges),
		Connectors: len(paths),
	}
	return l, stats, nil
}
