package graph

import (
	"github.com/matzehuels/gitlanes/pkg/connector"
	"github.com/matzehuels/gitlanes/pkg/lanes"
	"github.com/matzehuels/gitlanes/pkg/visual"
)

// =============================================================================
// Layout Export - lanes.Result → Layout
// =============================================================================

// ExportOptions configures [FromResult].
type ExportOptions struct {
	PassID  string
	Palette connector.Palette // colors of nodes; DefaultPalette when empty
}

// FromResult converts a finished layout pass and its connectors into the
// serialized form. Paths are matched to edges by edge ID; edges without a
// path keep empty path data.
func FromResult(res *lanes.Result, paths []connector.Path, opts ExportOptions) Layout {
	palette := opts.Palette
	if len(palette) == 0 {
		palette = connector.DefaultPalette()
	}

	out := Layout{
		VizType: VizTypeLanes,
		PassID:  opts.PassID,
		Width:   res.Dimensions.Width,
		Height:  res.Dimensions.Height,
		Lanes:   res.Lanes(),
		Spacing: Spacing{
			RowSpacing:  res.Spacing.RowSpacing,
			LaneSpacing: res.Spacing.LaneSpacing,
			Margin:      res.Spacing.Margin,
			NodeWidth:   res.Spacing.NodeWidth,
			NodeHeight:  res.Spacing.NodeHeight,
		},
		Nodes: make([]Node, len(res.Nodes)),
		Edges: make([]Edge, len(res.Edges)),
	}

	for i, n := range res.Nodes {
		out.Nodes[i] = Node{
			ID:    n.CommitID,
			Row:   n.Row,
			Lane:  n.Lane,
			X:     n.X,
			Y:     n.Y,
			Kind:  n.Kind.String(),
			Color: palette.ColorForLane(n.Lane),
		}
	}

	byEdge := make(map[string]connector.Path, len(paths))
	for _, p := range paths {
		byEdge[p.EdgeID] = p
	}
	for i, e := range res.Edges {
		p := byEdge[e.ID]
		out.Edges[i] = Edge{
			ID:        e.ID,
			From:      e.Start.CommitID,
			To:        e.End.CommitID,
			Direction: e.Direction.String(),
			Color:     p.Color,
			D:         p.D(),
			RoundCap:  p.RoundCap,
		}
	}

	for r := range res.Grid.Rows() {
		out.Rows = append(out.Rows, res.Grid.ActiveLanes(r))
	}
	return out
}

// =============================================================================
// Visual State - Layout ↔ visual.Controller
// =============================================================================

// NodeKey and EdgeKey namespace element IDs in a visual.Controller, since a
// commit ID may look like an edge ID.
func NodeKey(id string) string { return "node:" + id }

// EdgeKey returns the controller key of an edge.
func EdgeKey(id string) string { return "edge:" + id }

// Register adds every node and edge of l to c with its assigned color.
func Register(c *visual.Controller, l Layout) {
	for _, n := range l.Nodes {
		c.Register(NodeKey(n.ID), n.Color)
	}
	for _, e := range l.Edges {
		c.Register(EdgeKey(e.ID), e.Color)
	}
}

// Select marks the given commits and every edge touching them Selected.
// Unknown commit IDs are returned.
func Select(c *visual.Controller, l Layout, commits ...string) (unknown []string) {
	want := make(map[string]bool, len(commits))
	for _, id := range commits {
		if _, ok := l.Node(id); !ok {
			unknown = append(unknown, id)
			continue
		}
		want[id] = true
		c.SetState(NodeKey(id), visual.Selected)
	}
	for _, e := range l.Edges {
		if want[e.From] || want[e.To] {
			c.SetState(EdgeKey(e.ID), visual.Selected)
		}
	}
	return unknown
}

// ApplyStyles copies the controller's current styles into l.
func ApplyStyles(c *visual.Controller, l *Layout) {
	for i := range l.Nodes {
		key := NodeKey(l.Nodes[i].ID)
		l.Nodes[i].Style = styleOf(c, key)
	}
	for i := range l.Edges {
		key := EdgeKey(l.Edges[i].ID)
		l.Edges[i].Style = styleOf(c, key)
	}
}

func styleOf(c *visual.Controller, key string) *Style {
	s := c.Style(key)
	state := c.State(key)
	if c.Highlighted(key) && state == visual.Default {
		state = visual.Highlight
	}
	return &Style{State: state.String(), Width: s.Width, Color: s.Color}
}
