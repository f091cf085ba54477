package lanes

import (
	"github.com/charmbracelet/log"

	gerrors "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/history"
)

// Options configures a layout pass. The zero value uses [DefaultSpacing],
// [ReleaseTerminal] and log.Default().
type Options struct {
	Spacing Spacing
	Release ReleasePolicy
	Logger  *log.Logger
}

// Result is the output of one layout pass.
type Result struct {
	Nodes      []*Node // in row order
	Edges      []Edge  // grouped by child, parents in declared order
	Dimensions Dimensions
	Grid       *Grid
	Spacing    Spacing

	byID map[string]*Node
}

// Node returns the node of a commit.
func (r *Result) Node(id string) (*Node, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// Lanes returns the number of lanes used by the layout.
func (r *Result) Lanes() int { return r.Grid.MaxLanes() }

// Layout runs a full lane allocation pass over l, which must be ordered
// parents first, and derives one edge per (commit, parent) pair whose parent
// is part of l.
//
// The only error is an invalid spacing; malformed commits are skipped with a
// diagnostic so the rest of the history still lays out.
func Layout(l history.Log, opts Options) (*Result, error) {
	spacing := opts.Spacing
	if spacing == (Spacing{}) {
		spacing = DefaultSpacing()
	}
	if !spacing.valid() {
		return nil, gerrors.New(gerrors.ErrCodeInvalidConfig,
			"invalid spacing: row and lane spacing must be positive, sizes non-negative (%+v)", spacing)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	grid := NewGrid(spacing, logger)
	alloc := NewAllocator(grid, spacing, opts.Release, logger)
	nodes := alloc.Allocate(l)

	res := &Result{
		Nodes:   nodes,
		Grid:    grid,
		Spacing: spacing,
		byID:    make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		res.byID[n.CommitID] = n
	}
	res.Edges = buildEdges(l, res.byID)
	res.Dimensions = grid.Dimensions()

	logger.Debug("layout complete",
		"commits", len(nodes),
		"edges", len(res.Edges),
		"lanes", grid.MaxLanes(),
		"width", res.Dimensions.Width,
		"height", res.Dimensions.Height)
	return res, nil
}

func buildEdges(l history.Log, byID map[string]*Node) []Edge {
	var edges []Edge
	seen := make(map[string]bool, len(l))
	for _, c := range l {
		child, ok := byID[c.ID]
		if !ok || seen[c.ID] {
			continue
		}
		seen[c.ID] = true

		dir := BranchOut
		if child.Kind == KindMerge {
			dir = BranchIn
		}
		for _, p := range uniqueParents(c) {
			parent, ok := byID[p]
			if !ok {
				continue
			}
			edges = append(edges, Edge{
				ID:        EdgeID(c.ID, p),
				Start:     parent,
				End:       child,
				Direction: dir,
			})
		}
	}
	return edges
}
