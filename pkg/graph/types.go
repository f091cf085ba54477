package graph

import (
	"fmt"
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeLanes    = "lanes"
	VizTypeNodelink = "nodelink"
)

// Node kinds.
const (
	KindRegular = "regular"
	KindMerge   = "merge"
)

// Edge directions.
const (
	DirectionBranchOut = "branch-out"
	DirectionBranchIn  = "branch-in"
)

// =============================================================================
// Layout - Serialized Layout Pass
// =============================================================================

// Layout is the serialization format of one layout pass. It is what the
// pipeline caches and what every sink renders from.
//
// Check VizType to see which fields are populated:
//
//	Lanes ("lanes"):
//	  - Nodes, Edges with positions, connector path data and styles
//	  - Rows: the lane occupancy grid
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string of the commit DAG
//	  - Nodes, Edges without geometry
type Layout struct {
	VizType string `json:"viz_type" bson:"viz_type"`
	PassID  string `json:"pass_id,omitempty" bson:"pass_id,omitempty"`

	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Lanes  int     `json:"lanes" bson:"lanes"`

	Spacing Spacing    `json:"spacing" bson:"spacing"`
	Nodes   []Node     `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges   []Edge     `json:"edges,omitempty" bson:"edges,omitempty"`
	Rows    [][]string `json:"rows,omitempty" bson:"rows,omitempty"` // lane occupancy, "" = free

	// Nodelink-specific
	DOT string `json:"dot,omitempty" bson:"dot,omitempty"`
}

// IsLanes returns true if this is a lane layout.
func (l *Layout) IsLanes() bool { return l.VizType == VizTypeLanes }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Node returns the node with the given commit ID.
func (l *Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Validate checks the fields required by the viz type.
func (l *Layout) Validate() error {
	switch l.VizType {
	case VizTypeLanes:
		ids := make(map[string]bool, len(l.Nodes))
		for _, n := range l.Nodes {
			if n.ID == "" {
				return fmt.Errorf("node without id")
			}
			ids[n.ID] = true
		}
		for _, e := range l.Edges {
			if !ids[e.From] || !ids[e.To] {
				return fmt.Errorf("edge %s references unknown node", e.ID)
			}
		}
	case VizTypeNodelink:
		if l.DOT == "" {
			return fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return fmt.Errorf("unknown viz type %q", l.VizType)
	}
	return nil
}

// Spacing mirrors the spacing a layout was computed with.
type Spacing struct {
	RowSpacing  float64 `json:"row_spacing" bson:"row_spacing"`
	LaneSpacing float64 `json:"lane_spacing" bson:"lane_spacing"`
	Margin      float64 `json:"margin" bson:"margin"`
	NodeWidth   float64 `json:"node_width" bson:"node_width"`
	NodeHeight  float64 `json:"node_height" bson:"node_height"`
}

// =============================================================================
// Node - Positioned Commit
// =============================================================================

// Node is a positioned commit.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	Row   int     `json:"row" bson:"row"`
	Lane  int     `json:"lane" bson:"lane"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Kind  string  `json:"kind" bson:"kind"`
	Color string  `json:"color,omitempty" bson:"color,omitempty"` // lane color
	Style *Style  `json:"style,omitempty" bson:"style,omitempty"`
}

// IsMerge returns true for merge commits.
func (n *Node) IsMerge() bool { return n.Kind == KindMerge }

// ShortID abbreviates full-length hashes to seven characters, like git.
// Shorter IDs are returned as is.
func (n *Node) ShortID() string {
	if len(n.ID) >= 40 && strings.Trim(n.ID, "0123456789abcdef") == "" {
		return n.ID[:7]
	}
	return n.ID
}

// =============================================================================
// Edge - Connector Between Parent And Child
// =============================================================================

// Edge connects a parent (From) to a child (To). D holds the connector as SVG
// path data; it is empty for nodelink layouts.
type Edge struct {
	ID        string `json:"id" bson:"id"`
	From      string `json:"from" bson:"from"`
	To        string `json:"to" bson:"to"`
	Direction string `json:"direction" bson:"direction"`
	Color     string `json:"color,omitempty" bson:"color,omitempty"`
	D         string `json:"d,omitempty" bson:"d,omitempty"`
	RoundCap  bool   `json:"round_cap,omitempty" bson:"round_cap,omitempty"`
	Style     *Style `json:"style,omitempty" bson:"style,omitempty"`
}

// =============================================================================
// Style - Resolved Visual State
// =============================================================================

// Style is the resolved stroke of an element at export time.
type Style struct {
	State string  `json:"state" bson:"state"`
	Width float64 `json:"width" bson:"width"`
	Color string  `json:"color" bson:"color"`
}
