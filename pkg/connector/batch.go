package connector

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// BuildAll builds the connectors of edges with at most limit goroutines
// (GOMAXPROCS when limit <= 0). Paths come back in edge order; edges that
// cannot be built are left out. The only error is ctx's.
func BuildAll(ctx context.Context, edges []lanes.Edge, opts Options, limit int) ([]Path, error) {
	opts = opts.withDefaults()
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	paths := make([]Path, len(edges))
	built := make([]bool, len(edges))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, e := range edges {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			paths[i], built[i] = Build(e, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := paths[:0]
	for i, p := range paths {
		if built[i] {
			out = append(out, p)
		}
	}
	return out, nil
}
