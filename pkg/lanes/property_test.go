package lanes

import (
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/gitlanes/pkg/history"
)

func laneRows() *rapid.Generator[[][]string] {
	slot := rapid.SampledFrom([]string{"", "", "a", "b", "c"})
	return rapid.SliceOfN(rapid.SliceOfN(slot, 0, 6), 0, 10)
}

// randomLog draws a parents-first history of up to 30 commits with at most
// two distinct parents each.
func randomLog(t *rapid.T) history.Log {
	n := rapid.IntRange(0, 30).Draw(t, "commits")
	l := make(history.Log, n)
	for i := range l {
		l[i].ID = fmt.Sprintf("c%02d", i)
		if i == 0 {
			continue
		}
		k := rapid.IntRange(0, min(2, i)).Draw(t, fmt.Sprintf("parents%d", i))
		for range k {
			p := rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("parent%d", i))
			id := fmt.Sprintf("c%02d", p)
			if !slices.Contains(l[i].Parents, id) {
				l[i].Parents = append(l[i].Parents, id)
			}
		}
	}
	return l
}

func TestPropertyOccupancy(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := laneRows().Draw(t, "rows")
		g := quietGrid()
		for r, lanes := range rows {
			g.SetActiveLanes(r, lanes)
		}

		for r := -1; r <= len(rows); r++ {
			for l := -1; l <= 7; l++ {
				want := r >= 0 && r < len(rows) && l >= 0 && l < len(rows[r]) && rows[r][l] != ""
				if got := g.IsOccupied(r, l); got != want {
					t.Fatalf("IsOccupied(%d, %d) = %v, want %v", r, l, got, want)
				}
			}
		}
	})
}

func TestPropertyBranchPath(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := laneRows().Draw(t, "rows")
		g := quietGrid()
		for r, lanes := range rows {
			g.SetActiveLanes(r, lanes)
		}

		startRow := rapid.IntRange(0, 10).Draw(t, "startRow")
		endRow := rapid.IntRange(-2, 12).Draw(t, "endRow")
		endLane := rapid.IntRange(-2, 7).Draw(t, "endLane")
		start := &Node{Row: startRow}

		want := endRow >= 0 && endLane >= 0
		for r := startRow; want && r < endRow; r++ {
			if g.IsOccupied(r, endLane) {
				want = false
			}
		}
		if got := g.IsValidBranchPath(start, endRow, endLane); got != want {
			t.Fatalf("IsValidBranchPath(row %d, %d, %d) = %v, want %v", startRow, endRow, endLane, got, want)
		}
		if g.IsValidBranchPath(nil, endRow, endLane) {
			t.Fatal("IsValidBranchPath(nil, ...) = true")
		}
	})
}

func TestPropertyDimensionsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := laneRows().Draw(t, "rows")
		g := quietGrid()
		prev := g.Dimensions()
		for r, lanes := range rows {
			g.SetActiveLanes(r, lanes)
			d := g.Dimensions()
			if d.Width < prev.Width || d.Height < prev.Height {
				t.Fatalf("Dimensions shrank after row %d: %+v -> %+v", r, prev, d)
			}
			prev = d
		}
	})
}

func TestPropertyLayout(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := randomLog(t)
		policy := rapid.SampledFrom([]ReleasePolicy{ReleaseTerminal, ReserveTerminal}).Draw(t, "policy")

		res, err := Layout(l, Options{Release: policy, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("Layout() error: %v", err)
		}
		if len(res.Nodes) != len(l) {
			t.Fatalf("got %d nodes for %d commits", len(res.Nodes), len(l))
		}

		for i, n := range res.Nodes {
			if n.Row != i {
				t.Fatalf("%s.Row = %d, want %d", n.CommitID, n.Row, i)
			}
			if n.Lane < 0 || n.Lane >= res.Lanes() {
				t.Fatalf("%s.Lane = %d outside [0, %d)", n.CommitID, n.Lane, res.Lanes())
			}
			if got := res.Grid.ActiveLanes(n.Row)[n.Lane]; got != n.CommitID {
				t.Fatalf("grid row %d lane %d holds %q, want %q", n.Row, n.Lane, got, n.CommitID)
			}

			// A commit continues its first parent's lane when that lane
			// still carries the parent.
			c := l[i]
			if len(c.Parents) == 0 || i == 0 {
				continue
			}
			if pl := slices.Index(res.Grid.ActiveLanes(i-1), c.Parents[0]); pl >= 0 && n.Lane != pl {
				t.Fatalf("%s.Lane = %d, first parent %s holds lane %d", n.CommitID, n.Lane, c.Parents[0], pl)
			}

			// A commit branching off its only parent into another lane has a
			// clear run down that lane.
			if p, ok := res.Node(c.Parents[0]); ok && len(c.Parents) == 1 && p.Lane != n.Lane {
				if !res.Grid.IsValidBranchPath(p, n.Row, n.Lane) {
					t.Fatalf("%s at lane %d is obstructed from parent %s", n.CommitID, n.Lane, p.CommitID)
				}
			}
		}

		for _, e := range res.Edges {
			if e.Start.Row >= e.End.Row {
				t.Fatalf("edge %s runs backwards: row %d -> %d", e.ID, e.Start.Row, e.End.Row)
			}
			wantDir := BranchOut
			if e.End.Kind == KindMerge {
				wantDir = BranchIn
			}
			if e.Direction != wantDir {
				t.Fatalf("edge %s direction %v, want %v", e.ID, e.Direction, wantDir)
			}
		}
	})
}
