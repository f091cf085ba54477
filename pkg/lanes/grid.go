package lanes

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/history"
)

// Grid is the lane occupancy table of a layout pass. Row r holds, for every
// lane, the ID of the commit occupying it at r or "" when the lane is free.
//
// Rows are append-only: they are expected to be set once each, in
// increasing order. A Grid is scoped to one pass and is rebuilt, never
// patched, when the history changes.
type Grid struct {
	rows     [][]string
	maxLanes int
	spacing  Spacing
	logger   *log.Logger
}

// NewGrid creates an empty grid. A nil logger uses log.Default().
func NewGrid(spacing Spacing, logger *log.Logger) *Grid {
	if logger == nil {
		logger = log.Default()
	}
	return &Grid{spacing: spacing, logger: logger}
}

// Rows returns the number of recorded rows.
func (g *Grid) Rows() int { return len(g.rows) }

// MaxLanes returns the largest lane count recorded for any row.
func (g *Grid) MaxLanes() int { return g.maxLanes }

// ActiveLanes returns a copy of row's occupancy. Rows that were never set
// return nil. Reading never mutates the grid.
func (g *Grid) ActiveLanes(row int) []string {
	if row < 0 || row >= len(g.rows) {
		return nil
	}
	return slices.Clone(g.rows[row])
}

// SetActiveLanes records the occupancy of row and grows the maximum lane
// count when lanes is wider than any previous row. The slice is copied.
func (g *Grid) SetActiveLanes(row int, lanes []string) {
	if row < 0 {
		g.logger.Warn("SetActiveLanes: negative row ignored", "row", row)
		return
	}
	for len(g.rows) <= row {
		g.rows = append(g.rows, nil)
	}
	g.rows[row] = slices.Clone(lanes)
	if len(lanes) > g.maxLanes {
		g.maxLanes = len(lanes)
	}
}

// IsOccupied reports whether lane holds a commit at row.
func (g *Grid) IsOccupied(row, lane int) bool {
	if row < 0 || row >= len(g.rows) || lane < 0 {
		return false
	}
	lanes := g.rows[row]
	return lane < len(lanes) && lanes[lane] != ""
}

// IsValidBranchPath reports whether a connector can run from start along
// endLane up to endRow without passing through another commit: every row in
// [start.Row, endRow) must have endLane free.
//
// A nil start or a negative endRow or endLane logs a diagnostic and returns
// false.
func (g *Grid) IsValidBranchPath(start *Node, endRow, endLane int) bool {
	if start == nil || endRow < 0 || endLane < 0 {
		g.logger.Warn("IsValidBranchPath: invalid arguments",
			"start", start != nil, "endRow", endRow, "endLane", endLane)
		return false
	}
	for row := start.Row; row < endRow; row++ {
		if g.IsOccupied(row, endLane) {
			return false
		}
	}
	return true
}

// Dimensions returns the frame size needed for the recorded rows and the
// widest lane count seen so far. Both grow monotonically as rows are added.
func (g *Grid) Dimensions() Dimensions {
	return g.spacing.Frame(len(g.rows), g.maxLanes)
}

// ReplacementsInLanes returns the indices of lanes whose occupant is one of
// c's parents, in the order the parents are declared. These are the lanes
// c may continue.
func ReplacementsInLanes(c history.Commit, lanes []string) []int {
	var out []int
	for _, p := range c.Parents {
		if p == "" {
			continue
		}
		if i := slices.Index(lanes, p); i >= 0 && !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	return out
}

// EmptySlotInLanes returns the lowest free lane index, or -1 if every lane
// is taken.
func EmptySlotInLanes(lanes []string) int {
	return slices.Index(lanes, "")
}

// EmptySlotsInLanes returns all free lane indices in increasing order.
func EmptySlotsInLanes(lanes []string) []int {
	var out []int
	for i, id := range lanes {
		if id == "" {
			out = append(out, i)
		}
	}
	return out
}
