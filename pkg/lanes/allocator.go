package lanes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/history"
)

// ReleasePolicy decides what happens to the lane of a branch tip, a commit
// that no later commit names as a parent.
type ReleasePolicy int

const (
	// ReleaseTerminal frees a tip's lane from the next row on, so later
	// branches can reuse it. This keeps graphs narrow.
	ReleaseTerminal ReleasePolicy = iota
	// ReserveTerminal keeps a tip's lane reserved until the end of the pass,
	// so no other branch is drawn on the same line after it ends.
	ReserveTerminal
)

// String returns the policy name as accepted by [ParseReleasePolicy].
func (p ReleasePolicy) String() string {
	if p == ReserveTerminal {
		return "reserve"
	}
	return "release"
}

// ParseReleasePolicy parses "release" or "reserve" (case-insensitive).
// The empty string selects [ReleaseTerminal].
func ParseReleasePolicy(s string) (ReleasePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "release":
		return ReleaseTerminal, nil
	case "reserve":
		return ReserveTerminal, nil
	default:
		return ReleaseTerminal, fmt.Errorf("unknown release policy %q (want release or reserve)", s)
	}
}

// Allocator assigns lanes to commits processed parents first, recording one
// grid row per accepted commit.
type Allocator struct {
	grid    *Grid
	spacing Spacing
	policy  ReleasePolicy
	logger  *log.Logger

	working  []string         // lane occupancy carried into the next row
	children map[string]int   // number of children per commit ID
	counted  bool             // children holds counts for the whole log
	nodes    map[string]*Node // placed nodes by commit ID
	order    []*Node          // placed nodes in row order
}

// NewAllocator creates an allocator writing into grid.
func NewAllocator(grid *Grid, spacing Spacing, policy ReleasePolicy, logger *log.Logger) *Allocator {
	if logger == nil {
		logger = log.Default()
	}
	return &Allocator{
		grid:     grid,
		spacing:  spacing,
		policy:   policy,
		logger:   logger,
		children: make(map[string]int),
		nodes:    make(map[string]*Node),
	}
}

// Allocate places every commit of l in order and returns the nodes in row
// order. Commits with empty or duplicate IDs are skipped with a diagnostic
// and do not consume a row.
func (a *Allocator) Allocate(l history.Log) []*Node {
	seen := make(map[string]bool, len(l))
	for _, c := range l {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		for _, p := range uniqueParents(c) {
			a.children[p]++
		}
	}
	a.counted = true
	for _, c := range l {
		a.Place(c)
	}
	return a.order
}

// Place assigns c to a lane in the next row and returns its node, or nil if
// c was skipped. Commits placed directly, without [Allocator.Allocate], have
// no child counts, so their lanes stay reserved whatever the policy.
func (a *Allocator) Place(c history.Commit) *Node {
	if c.ID == "" {
		a.logger.Warn("skipping commit with empty ID", "row", len(a.order))
		return nil
	}
	if _, dup := a.nodes[c.ID]; dup {
		a.logger.Warn("skipping duplicate commit", "commit", c.ID)
		return nil
	}

	row := len(a.order)
	lanes := slices.Clone(a.working)

	repl := ReplacementsInLanes(c, lanes)
	var lane int
	if len(repl) > 0 {
		lane = repl[0]
		for _, merged := range repl[1:] {
			lanes[merged] = ""
		}
	} else {
		lane = a.openLane(c, lanes, row)
	}

	for len(lanes) <= lane {
		lanes = append(lanes, "")
	}
	lanes[lane] = c.ID
	a.grid.SetActiveLanes(row, lanes)

	kind := KindRegular
	if c.IsMerge() {
		kind = KindMerge
	}
	x, y := a.spacing.Position(row, lane)
	n := &Node{CommitID: c.ID, Lane: lane, Row: row, X: x, Y: y, Kind: kind}
	a.nodes[c.ID] = n
	a.order = append(a.order, n)

	next := lanes
	if a.policy == ReleaseTerminal && a.isTip(c.ID) {
		next = slices.Clone(lanes)
		next[lane] = ""
	}
	a.working = trimFree(next)

	a.logger.Debug("placed commit", "commit", c.ID, "row", row, "lane", lane, "kind", kind)
	return n
}

// Node returns the placed node for a commit ID.
func (a *Allocator) Node(id string) (*Node, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// isTip reports whether the commit is known to have no children. Commits
// placed outside Allocate have no child counts and are never tips.
func (a *Allocator) isTip(id string) bool {
	if !a.counted {
		return false
	}
	return a.children[id] == 0
}

// openLane picks the lane for a commit that continues no existing lane.
// A commit with a placed parent takes the lowest lane, free or new, whose
// path from the parent is unobstructed. Lanes past the working row may hold
// released tips in earlier rows. Other commits take the lowest free lane or
// a new one.
func (a *Allocator) openLane(c history.Commit, lanes []string, row int) int {
	free := EmptySlotsInLanes(lanes)
	parent := a.firstPlacedParent(c)
	if parent == nil {
		if len(free) > 0 {
			return free[0]
		}
		return len(lanes)
	}
	for _, lane := range free {
		if a.grid.IsValidBranchPath(parent, row, lane) {
			return lane
		}
	}
	// Lanes at or beyond MaxLanes are free in every row, so this ends.
	lane := len(lanes)
	for !a.grid.IsValidBranchPath(parent, row, lane) {
		lane++
	}
	return lane
}

func (a *Allocator) firstPlacedParent(c history.Commit) *Node {
	for _, p := range c.Parents {
		if n, ok := a.nodes[p]; ok {
			return n
		}
	}
	return nil
}

func uniqueParents(c history.Commit) []string {
	var out []string
	for _, p := range c.Parents {
		if p != "" && p != c.ID && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// trimFree drops free lanes at the end of the row.
func trimFree(lanes []string) []string {
	end := len(lanes)
	for end > 0 && lanes[end-1] == "" {
		end--
	}
	return lanes[:end]
}
