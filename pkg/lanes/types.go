package lanes

// NodeKind distinguishes regular commits from merge commits. It is assigned
// once when the node is created and never re-derived.
type NodeKind int

const (
	// KindRegular is a commit with zero or one parent.
	KindRegular NodeKind = iota
	// KindMerge is a commit with two or more parents.
	KindMerge
)

// String returns "regular" or "merge".
func (k NodeKind) String() string {
	if k == KindMerge {
		return "merge"
	}
	return "regular"
}

// Direction tags an edge by the kind of its child node.
type Direction int

const (
	// BranchOut connects a parent to a regular child: the branch continues
	// or diverges into the child's lane.
	BranchOut Direction = iota
	// BranchIn connects a parent to a merge child: the parent's branch is
	// merged back into the child's lane.
	BranchIn
)

// String returns "branch-out" or "branch-in".
func (d Direction) String() string {
	if d == BranchIn {
		return "branch-in"
	}
	return "branch-out"
}

// Node is a commit positioned in the graph. X and Y are the top-left corner
// of the node's bounding box in user units.
type Node struct {
	CommitID string
	Lane     int
	Row      int
	X, Y     float64
	Kind     NodeKind
}

// Edge connects a parent (Start) to one of its children (End).
type Edge struct {
	ID        string
	Start     *Node
	End       *Node
	Direction Direction
}

// EdgeID returns the key of the edge from parent to commit, "<commit>_<parent>".
func EdgeID(commitID, parentID string) string {
	return commitID + "_" + parentID
}

// OwnerLane returns the lane of the branch the edge belongs to: the child's
// lane for BranchOut edges, the parent's lane for BranchIn edges. Connector
// colors are keyed off this lane.
func (e Edge) OwnerLane() int {
	if e.Direction == BranchIn {
		return e.Start.Lane
	}
	return e.End.Lane
}

// Dimensions is the frame size of a laid-out graph.
type Dimensions struct {
	Width  float64
	Height float64
}

// Spacing converts lane and row indices into coordinates.
type Spacing struct {
	RowSpacing  float64 // distance between consecutive rows along x
	LaneSpacing float64 // distance between consecutive lanes along y
	Margin      float64 // padding around the graph on every side
	NodeWidth   float64 // node bounding box width
	NodeHeight  float64 // node bounding box height
}

// Default spacing values in user units.
const (
	DefaultRowSpacing  = 30.0
	DefaultLaneSpacing = 30.0
	DefaultMargin      = 10.0
	DefaultNodeWidth   = 15.0
	DefaultNodeHeight  = 20.0
)

// DefaultSpacing returns the spacing used when none is configured.
func DefaultSpacing() Spacing {
	return Spacing{
		RowSpacing:  DefaultRowSpacing,
		LaneSpacing: DefaultLaneSpacing,
		Margin:      DefaultMargin,
		NodeWidth:   DefaultNodeWidth,
		NodeHeight:  DefaultNodeHeight,
	}
}

// Position returns the top-left corner of the node at (row, lane).
func (s Spacing) Position(row, lane int) (x, y float64) {
	return s.Margin + float64(row)*s.RowSpacing, s.Margin + float64(lane)*s.LaneSpacing
}

// Anchor returns the connector anchor of a node: the center of its box.
func (s Spacing) Anchor(n *Node) (x, y float64) {
	return n.X + s.NodeWidth/2, n.Y + s.NodeHeight/2
}

// Frame returns the frame dimensions for a graph with the given number of
// rows and lanes. Width grows with rows, height with lanes.
func (s Spacing) Frame(rows, lanes int) Dimensions {
	return Dimensions{
		Width:  2*s.Margin + float64(rows)*s.RowSpacing,
		Height: 2*s.Margin + float64(lanes)*s.LaneSpacing,
	}
}

func (s Spacing) valid() bool {
	return s.RowSpacing > 0 && s.LaneSpacing > 0 && s.Margin >= 0 && s.NodeWidth >= 0 && s.NodeHeight >= 0
}
