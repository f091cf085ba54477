package lanes

import (
	"bytes"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/history"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

// diamond is A <- B, A <- C, D merges B and C.
func diamond() history.Log {
	return history.Log{
		{ID: "A"},
		{ID: "B", Parents: []string{"A"}},
		{ID: "C", Parents: []string{"A"}},
		{ID: "D", Parents: []string{"B", "C"}},
	}
}

func allocate(t *testing.T, l history.Log, policy ReleasePolicy) (*Allocator, *Grid) {
	t.Helper()
	g := NewGrid(DefaultSpacing(), quietLogger())
	a := NewAllocator(g, DefaultSpacing(), policy, quietLogger())
	a.Allocate(l)
	return a, g
}

func lanesOf(a *Allocator, ids ...string) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		n, ok := a.Node(id)
		if !ok {
			out[i] = -1
			continue
		}
		out[i] = n.Lane
	}
	return out
}

func TestAllocateDiamond(t *testing.T) {
	a, g := allocate(t, diamond(), ReleaseTerminal)

	if got := lanesOf(a, "A", "B", "C", "D"); !slices.Equal(got, []int{0, 0, 1, 0}) {
		t.Errorf("lanes = %v, want [0 0 1 0]", got)
	}

	wantRows := [][]string{
		{"A"},
		{"B"},
		{"B", "C"},
		{"D", ""},
	}
	if g.Rows() != len(wantRows) {
		t.Fatalf("Rows() = %d, want %d", g.Rows(), len(wantRows))
	}
	for row, want := range wantRows {
		if got := g.ActiveLanes(row); !slices.Equal(got, want) {
			t.Errorf("ActiveLanes(%d) = %q, want %q", row, got, want)
		}
	}
	if g.MaxLanes() != 2 {
		t.Errorf("MaxLanes() = %d, want 2", g.MaxLanes())
	}
}

func TestAllocateRowsAndKinds(t *testing.T) {
	a, _ := allocate(t, diamond(), ReleaseTerminal)

	for i, id := range []string{"A", "B", "C", "D"} {
		n, ok := a.Node(id)
		if !ok {
			t.Fatalf("Node(%q) missing", id)
		}
		if n.Row != i {
			t.Errorf("%s.Row = %d, want %d", id, n.Row, i)
		}
		wantKind := KindRegular
		if id == "D" {
			wantKind = KindMerge
		}
		if n.Kind != wantKind {
			t.Errorf("%s.Kind = %v, want %v", id, n.Kind, wantKind)
		}
		x, y := DefaultSpacing().Position(n.Row, n.Lane)
		if n.X != x || n.Y != y {
			t.Errorf("%s at (%v, %v), want (%v, %v)", id, n.X, n.Y, x, y)
		}
	}
}

func TestAllocateReleasePolicy(t *testing.T) {
	// B is a tip. C is an unrelated root placed after it.
	l := history.Log{
		{ID: "A"},
		{ID: "B", Parents: []string{"A"}},
		{ID: "C"},
	}

	tests := []struct {
		policy ReleasePolicy
		wantC  int
	}{
		{ReleaseTerminal, 0},
		{ReserveTerminal, 1},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			a, _ := allocate(t, l, tt.policy)
			if got := lanesOf(a, "C")[0]; got != tt.wantC {
				t.Errorf("C.Lane = %d, want %d", got, tt.wantC)
			}
		})
	}
}

func TestAllocateSiblingAfterTip(t *testing.T) {
	// B is a tip, and C branches from A after it. B's released lane still
	// holds B at row 1, so C must not be drawn through it.
	l := history.Log{
		{ID: "A"},
		{ID: "B", Parents: []string{"A"}},
		{ID: "C", Parents: []string{"A"}},
	}

	for _, policy := range []ReleasePolicy{ReleaseTerminal, ReserveTerminal} {
		t.Run(policy.String(), func(t *testing.T) {
			a, g := allocate(t, l, policy)
			na, _ := a.Node("A")
			nb, _ := a.Node("B")
			nc, _ := a.Node("C")

			if nc.Lane == nb.Lane {
				t.Errorf("C shares lane %d with B", nc.Lane)
			}
			if !g.IsValidBranchPath(na, nc.Row, nc.Lane) {
				t.Errorf("path A -> C along lane %d is obstructed", nc.Lane)
			}
			if got := lanesOf(a, "A", "B", "C"); !slices.Equal(got, []int{0, 0, 1}) {
				t.Errorf("lanes = %v, want [0 0 1]", got)
			}
		})
	}
}

func TestAllocateSkipsObstructedFreeLanes(t *testing.T) {
	// The merge M leaves lanes 0 and 1 free, but A's row and C sit on them
	// between A and D, so D opens a new lane past Z.
	l := history.Log{
		{ID: "A"},
		{ID: "B", Parents: []string{"A"}},
		{ID: "C", Parents: []string{"A"}},
		{ID: "Z"},
		{ID: "M", Parents: []string{"B", "C"}},
		{ID: "D", Parents: []string{"A"}},
		{ID: "Y", Parents: []string{"Z"}},
	}
	a, g := allocate(t, l, ReleaseTerminal)
	na, _ := a.Node("A")
	nd, _ := a.Node("D")

	if got := g.ActiveLanes(4); !slices.Equal(got, []string{"M", "", "Z"}) {
		t.Fatalf("ActiveLanes(4) = %q, want [M \"\" Z]", got)
	}
	if !g.IsValidBranchPath(na, nd.Row, nd.Lane) {
		t.Errorf("D placed on obstructed lane %d", nd.Lane)
	}
	if got := lanesOf(a, "C", "Z", "M", "D", "Y"); !slices.Equal(got, []int{1, 2, 0, 3, 2}) {
		t.Errorf("lanes = %v, want [1 2 0 3 2]", got)
	}
}

func TestAllocateIgnoresSkippedChildren(t *testing.T) {
	// The second X is a skipped duplicate, so A has no children and its
	// lane is free for X.
	a, _ := allocate(t, history.Log{
		{ID: "A"},
		{ID: "X"},
		{ID: "X", Parents: []string{"A"}},
		{ID: "", Parents: []string{"A"}},
	}, ReleaseTerminal)

	if got := lanesOf(a, "X")[0]; got != 0 {
		t.Errorf("X.Lane = %d, want 0 (A released as a tip)", got)
	}
}

func TestAllocateMergeFreesSecondaryLane(t *testing.T) {
	l := append(diamond(), history.Commit{ID: "E"}, history.Commit{ID: "F"})
	a, g := allocate(t, l, ReserveTerminal)

	if g.IsOccupied(3, 1) {
		t.Error("lane 1 should be free at the merge row")
	}
	// D and E stay reserved, so F lands right after them.
	if got := lanesOf(a, "D", "E", "F"); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("lanes = %v, want [0 1 2]", got)
	}
}

func TestAllocateFirstParentWins(t *testing.T) {
	// M declares C first, so it continues C's lane and frees B's.
	l := history.Log{
		{ID: "A"},
		{ID: "B", Parents: []string{"A"}},
		{ID: "C", Parents: []string{"A"}},
		{ID: "M", Parents: []string{"C", "B"}},
	}
	a, g := allocate(t, l, ReleaseTerminal)

	if got := lanesOf(a, "M")[0]; got != 1 {
		t.Errorf("M.Lane = %d, want 1", got)
	}
	if got := g.ActiveLanes(3); !slices.Equal(got, []string{"", "M"}) {
		t.Errorf("ActiveLanes(3) = %q, want [\"\" M]", got)
	}
}

func TestAllocateSkipsInvalidCommits(t *testing.T) {
	var buf bytes.Buffer
	g := NewGrid(DefaultSpacing(), quietLogger())
	a := NewAllocator(g, DefaultSpacing(), ReleaseTerminal, log.New(&buf))

	nodes := a.Allocate(history.Log{
		{ID: "A"},
		{ID: ""},
		{ID: "A"},
		{ID: "B", Parents: []string{"A"}},
	})

	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if g.Rows() != 2 {
		t.Errorf("Rows() = %d, skipped commits must not consume a row", g.Rows())
	}
	if b, _ := a.Node("B"); b.Row != 1 || b.Lane != 0 {
		t.Errorf("B at row %d lane %d, want row 1 lane 0", b.Row, b.Lane)
	}
	if buf.Len() == 0 {
		t.Error("expected diagnostics for skipped commits")
	}
}

func TestAllocateUnknownParent(t *testing.T) {
	a, _ := allocate(t, history.Log{
		{ID: "A"},
		{ID: "B", Parents: []string{"missing"}},
	}, ReserveTerminal)

	if got := lanesOf(a, "B")[0]; got != 1 {
		t.Errorf("B.Lane = %d, want 1 (treated as a new branch)", got)
	}
}

func TestOpenLanePrefersClearPath(t *testing.T) {
	g := NewGrid(DefaultSpacing(), quietLogger())
	a := NewAllocator(g, DefaultSpacing(), ReleaseTerminal, quietLogger())

	g.SetActiveLanes(0, []string{"P"})
	g.SetActiveLanes(1, []string{"P", "S"})
	g.SetActiveLanes(2, []string{"", "S", "", "U"})
	a.nodes["P"] = &Node{CommitID: "P", Row: 0, Lane: 0}

	working := []string{"", "S", "", "U"}

	tests := []struct {
		name   string
		commit history.Commit
		lanes  []string
		want   int
	}{
		{"clear path beats lowest free", history.Commit{ID: "C", Parents: []string{"P"}}, working, 2},
		{"no placed parent takes lowest free", history.Commit{ID: "R"}, working, 0},
		{"no free lane opens a new one", history.Commit{ID: "C", Parents: []string{"P"}}, []string{"S", "U"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.openLane(tt.commit, tt.lanes, 3); got != tt.want {
				t.Errorf("openLane() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlaceWithoutAllocateReserves(t *testing.T) {
	g := NewGrid(DefaultSpacing(), quietLogger())
	a := NewAllocator(g, DefaultSpacing(), ReleaseTerminal, quietLogger())

	a.Place(history.Commit{ID: "A"})
	b := a.Place(history.Commit{ID: "B"})

	if b.Lane != 1 {
		t.Errorf("B.Lane = %d, want 1", b.Lane)
	}
}

func TestParseReleasePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ReleasePolicy
		wantErr bool
	}{
		{"", ReleaseTerminal, false},
		{"release", ReleaseTerminal, false},
		{"Reserve", ReserveTerminal, false},
		{" reserve ", ReserveTerminal, false},
		{"keep", ReleaseTerminal, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReleasePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReleasePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseReleasePolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
