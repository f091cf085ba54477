package lanes

import (
	"testing"

	gerrors "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/history"
)

func TestLayoutEdges(t *testing.T) {
	res, err := Layout(diamond(), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	want := []struct {
		id    string
		start string
		end   string
		dir   Direction
		owner int
	}{
		{"B_A", "A", "B", BranchOut, 0},
		{"C_A", "A", "C", BranchOut, 1},
		{"D_B", "B", "D", BranchIn, 0},
		{"D_C", "C", "D", BranchIn, 1},
	}

	if len(res.Edges) != len(want) {
		t.Fatalf("got %d edges, want %d", len(res.Edges), len(want))
	}
	for i, w := range want {
		e := res.Edges[i]
		if e.ID != w.id {
			t.Errorf("edge %d ID = %q, want %q", i, e.ID, w.id)
		}
		if e.Start.CommitID != w.start || e.End.CommitID != w.end {
			t.Errorf("%s: %s -> %s, want %s -> %s", e.ID, e.Start.CommitID, e.End.CommitID, w.start, w.end)
		}
		if e.Direction != w.dir {
			t.Errorf("%s: direction %v, want %v", e.ID, e.Direction, w.dir)
		}
		if got := e.OwnerLane(); got != w.owner {
			t.Errorf("%s: OwnerLane() = %d, want %d", e.ID, got, w.owner)
		}
	}
}

func TestLayoutDimensions(t *testing.T) {
	res, err := Layout(diamond(), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}

	want := Dimensions{Width: 2*DefaultMargin + 4*DefaultRowSpacing, Height: 2*DefaultMargin + 2*DefaultLaneSpacing}
	if res.Dimensions != want {
		t.Errorf("Dimensions = %+v, want %+v", res.Dimensions, want)
	}
	if res.Lanes() != 2 {
		t.Errorf("Lanes() = %d, want 2", res.Lanes())
	}
	if c, ok := res.Node("C"); !ok || c.X != DefaultMargin+2*DefaultRowSpacing || c.Y != DefaultMargin+DefaultLaneSpacing {
		t.Errorf("Node(C) = %+v", c)
	}
}

func TestLayoutSkipsMissingParents(t *testing.T) {
	res, err := Layout(history.Log{
		{ID: "B", Parents: []string{"gone"}},
		{ID: "C", Parents: []string{"B", "B"}},
	}, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Edges) != 1 || res.Edges[0].ID != "C_B" {
		t.Fatalf("Edges = %+v, want only C_B", res.Edges)
	}
}

func TestLayoutEmpty(t *testing.T) {
	res, err := Layout(nil, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Nodes) != 0 || len(res.Edges) != 0 {
		t.Errorf("empty log produced %d nodes and %d edges", len(res.Nodes), len(res.Edges))
	}
	if res.Dimensions != DefaultSpacing().Frame(0, 0) {
		t.Errorf("Dimensions = %+v", res.Dimensions)
	}
}

func TestLayoutInvalidSpacing(t *testing.T) {
	_, err := Layout(diamond(), Options{
		Spacing: Spacing{RowSpacing: -1, LaneSpacing: 10},
		Logger:  quietLogger(),
	})
	if !gerrors.Is(err, gerrors.ErrCodeInvalidConfig) {
		t.Errorf("Layout() error = %v, want %s", err, gerrors.ErrCodeInvalidConfig)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	l := append(diamond(),
		history.Commit{ID: "E", Parents: []string{"A"}},
		history.Commit{ID: "F", Parents: []string{"E", "D"}},
	)
	first, err := Layout(l, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := Layout(l, Options{Logger: quietLogger()})
		if err != nil {
			t.Fatal(err)
		}
		for i, n := range first.Nodes {
			if *again.Nodes[i] != *n {
				t.Fatalf("node %d differs between passes: %+v vs %+v", i, *again.Nodes[i], *n)
			}
		}
	}
}
