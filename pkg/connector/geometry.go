package connector

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// DefaultRadius is the corner radius of connector elbows in user units.
const DefaultRadius = 10.0

// Point is a position in user units.
type Point struct {
	X, Y float64
}

// SegmentKind distinguishes straight segments from quadratic curves.
type SegmentKind int

const (
	// Line is a straight run from From to To.
	Line SegmentKind = iota
	// Quad is a quadratic Bézier elbow from From to To bent toward Ctrl.
	Quad
)

// Segment is one piece of a connector. Ctrl is only meaningful for Quad.
type Segment struct {
	Kind SegmentKind
	From Point
	Ctrl Point
	To   Point
}

// Path is the full drawn shape of one edge.
type Path struct {
	EdgeID    string
	Direction lanes.Direction
	Segments  []Segment
	Color     string
	RoundCap  bool
}

// Start returns the first point of the path.
func (p Path) Start() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[0].From
}

// End returns the last point of the path.
func (p Path) End() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[len(p.Segments)-1].To
}

// D returns the path as SVG path data: one move followed by a line or curve
// command per segment.
func (p Path) D() string {
	if len(p.Segments) == 0 {
		return ""
	}
	var b strings.Builder
	start := p.Segments[0].From
	b.WriteString("M " + num(start.X) + " " + num(start.Y))
	for _, s := range p.Segments {
		switch s.Kind {
		case Quad:
			b.WriteString(" Q " + num(s.Ctrl.X) + " " + num(s.Ctrl.Y) + " " + num(s.To.X) + " " + num(s.To.Y))
		default:
			b.WriteString(" L " + num(s.To.X) + " " + num(s.To.Y))
		}
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// Options configures connector construction.
type Options struct {
	Spacing lanes.Spacing // node size used for anchors; DefaultSpacing when zero
	Palette Palette       // DefaultPalette when empty
	Radius  float64       // corner radius; DefaultRadius when zero
	Logger  *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Spacing == (lanes.Spacing{}) {
		o.Spacing = lanes.DefaultSpacing()
	}
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette()
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Radius < 0 {
		o.Radius = 0
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Build returns the connector of e. An edge missing either endpoint logs a
// diagnostic and yields false.
func Build(e lanes.Edge, opts Options) (Path, bool) {
	opts = opts.withDefaults()
	if e.Start == nil || e.End == nil {
		opts.Logger.Warn("connector: edge without endpoints skipped",
			"edge", e.ID, "start", e.Start != nil, "end", e.End != nil)
		return Path{}, false
	}

	sx, sy := opts.Spacing.Anchor(e.Start)
	ex, ey := opts.Spacing.Anchor(e.End)
	segs := Geometry(Point{sx, sy}, Point{ex, ey}, e.Direction, opts.Radius)

	return Path{
		EdgeID:    e.ID,
		Direction: e.Direction,
		Segments:  segs,
		Color:     opts.Palette.ColorForLane(e.OwnerLane()),
		RoundCap:  len(segs) == 1,
	}, true
}

// Geometry returns the segments from s to e for an edge of direction dir.
// The radius is clamped to the horizontal and vertical distance so the elbow
// never overshoots either endpoint.
func Geometry(s, e Point, dir lanes.Direction, radius float64) []Segment {
	if s.Y == e.Y {
		return []Segment{{Kind: Line, From: s, To: e}}
	}

	dx, dy := e.X-s.X, e.Y-s.Y
	r := math.Min(radius, math.Min(math.Abs(dx), math.Abs(dy)))
	hx := sign(dx) * r // horizontal step of the elbow
	vy := sign(dy) * r // vertical step of the elbow

	if dir == lanes.BranchIn {
		// Along the parent's lane, then down or up into the merge.
		a := Point{e.X - hx, s.Y}
		b := Point{e.X, s.Y + vy}
		return []Segment{
			{Kind: Line, From: s, To: a},
			{Kind: Quad, From: a, Ctrl: Point{e.X, s.Y}, To: b},
			{Kind: Line, From: b, To: e},
		}
	}

	// Off the parent's lane first, then along the child's lane.
	a := Point{s.X, e.Y - vy}
	b := Point{s.X + hx, e.Y}
	return []Segment{
		{Kind: Line, From: s, To: a},
		{Kind: Quad, From: a, Ctrl: Point{s.X, e.Y}, To: b},
		{Kind: Line, From: b, To: e},
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
