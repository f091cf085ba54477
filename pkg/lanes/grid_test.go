package lanes

import (
	"bytes"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/history"
)

func quietGrid() *Grid {
	return NewGrid(DefaultSpacing(), log.New(io.Discard))
}

func TestGridActiveLanesIsCopy(t *testing.T) {
	g := quietGrid()
	in := []string{"a", "", "b"}
	g.SetActiveLanes(0, in)

	in[0] = "mutated"
	got := g.ActiveLanes(0)
	if !slices.Equal(got, []string{"a", "", "b"}) {
		t.Fatalf("ActiveLanes(0) = %v, SetActiveLanes must copy its input", got)
	}

	got[1] = "x"
	if g.IsOccupied(0, 1) {
		t.Error("mutating the result of ActiveLanes changed the grid")
	}
}

func TestGridActiveLanesOutOfRange(t *testing.T) {
	g := quietGrid()
	g.SetActiveLanes(0, []string{"a"})
	for _, row := range []int{-1, 1, 10} {
		if got := g.ActiveLanes(row); got != nil {
			t.Errorf("ActiveLanes(%d) = %v, want nil", row, got)
		}
	}
}

func TestGridMaxLanes(t *testing.T) {
	g := quietGrid()
	g.SetActiveLanes(0, []string{"a"})
	g.SetActiveLanes(1, []string{"b", "c", "d"})
	g.SetActiveLanes(2, []string{"e"})

	if got := g.MaxLanes(); got != 3 {
		t.Errorf("MaxLanes() = %d, want 3", got)
	}
	if got := g.Rows(); got != 3 {
		t.Errorf("Rows() = %d, want 3", got)
	}
}

func TestGridIsOccupied(t *testing.T) {
	g := quietGrid()
	g.SetActiveLanes(0, []string{"a", "", "c"})

	tests := []struct {
		name      string
		row, lane int
		want      bool
	}{
		{"occupied", 0, 0, true},
		{"free slot", 0, 1, false},
		{"last slot", 0, 2, true},
		{"beyond row width", 0, 3, false},
		{"negative lane", 0, -1, false},
		{"unknown row", 5, 0, false},
		{"negative row", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsOccupied(tt.row, tt.lane); got != tt.want {
				t.Errorf("IsOccupied(%d, %d) = %v, want %v", tt.row, tt.lane, got, tt.want)
			}
		})
	}
}

func TestGridIsValidBranchPath(t *testing.T) {
	g := quietGrid()
	g.SetActiveLanes(0, []string{"a"})
	g.SetActiveLanes(1, []string{"a", "b"})
	g.SetActiveLanes(2, []string{"a", ""})
	g.SetActiveLanes(3, []string{"a", "", ""})

	start := &Node{CommitID: "a", Row: 0, Lane: 0}

	tests := []struct {
		name    string
		endRow  int
		endLane int
		want    bool
	}{
		{"blocked by b at row 1", 3, 1, false},
		{"free lane 2", 3, 2, true},
		{"start lane itself is occupied", 2, 0, false},
		{"empty range", 0, 0, true},
		{"path before obstruction", 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsValidBranchPath(start, tt.endRow, tt.endLane); got != tt.want {
				t.Errorf("IsValidBranchPath(start, %d, %d) = %v, want %v", tt.endRow, tt.endLane, got, tt.want)
			}
		})
	}
}

func TestGridIsValidBranchPathInvalidInput(t *testing.T) {
	var buf bytes.Buffer
	g := NewGrid(DefaultSpacing(), log.New(&buf))
	g.SetActiveLanes(0, []string{"a"})
	start := &Node{CommitID: "a"}

	tests := []struct {
		name    string
		start   *Node
		endRow  int
		endLane int
	}{
		{"nil start", nil, 1, 0},
		{"negative row", start, -1, 0},
		{"negative lane", start, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			if g.IsValidBranchPath(tt.start, tt.endRow, tt.endLane) {
				t.Error("IsValidBranchPath() = true, want false for invalid input")
			}
			if buf.Len() == 0 {
				t.Error("IsValidBranchPath() should log a diagnostic for invalid input")
			}
		})
	}
}

func TestGridDimensions(t *testing.T) {
	s := Spacing{RowSpacing: 10, LaneSpacing: 20, Margin: 5, NodeWidth: 4, NodeHeight: 4}
	g := NewGrid(s, log.New(io.Discard))

	if got := g.Dimensions(); got != (Dimensions{Width: 10, Height: 10}) {
		t.Errorf("empty Dimensions() = %+v, want margins only", got)
	}

	g.SetActiveLanes(0, []string{"a"})
	g.SetActiveLanes(1, []string{"a", "b"})
	want := Dimensions{Width: 10 + 2*10, Height: 10 + 2*20}
	if got := g.Dimensions(); got != want {
		t.Errorf("Dimensions() = %+v, want %+v", got, want)
	}
}

func TestReplacementsInLanes(t *testing.T) {
	lanes := []string{"x", "p2", "", "p1"}

	tests := []struct {
		name   string
		commit history.Commit
		want   []int
	}{
		{"first parent order", history.Commit{ID: "m", Parents: []string{"p1", "p2"}}, []int{3, 1}},
		{"swapped order", history.Commit{ID: "m", Parents: []string{"p2", "p1"}}, []int{1, 3}},
		{"missing parent", history.Commit{ID: "c", Parents: []string{"gone"}}, nil},
		{"root", history.Commit{ID: "r"}, nil},
		{"duplicate parent", history.Commit{ID: "c", Parents: []string{"x", "x"}}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplacementsInLanes(tt.commit, lanes); !slices.Equal(got, tt.want) {
				t.Errorf("ReplacementsInLanes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptySlots(t *testing.T) {
	lanes := []string{"a", "", "b", ""}
	if got := EmptySlotInLanes(lanes); got != 1 {
		t.Errorf("EmptySlotInLanes() = %d, want 1", got)
	}
	if got := EmptySlotsInLanes(lanes); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("EmptySlotsInLanes() = %v, want [1 3]", got)
	}
	if got := EmptySlotInLanes([]string{"a"}); got != -1 {
		t.Errorf("EmptySlotInLanes(full) = %d, want -1", got)
	}
	if got := EmptySlotsInLanes(nil); got != nil {
		t.Errorf("EmptySlotsInLanes(nil) = %v, want nil", got)
	}
}
