package connector

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"pgregory.net/rapid"

	"github.com/matzehuels/gitlanes/pkg/history"
	"github.com/matzehuels/gitlanes/pkg/lanes"
)

func quiet() Options { return Options{Logger: log.New(io.Discard)} }

func diamondLayout(t *testing.T) *lanes.Result {
	t.Helper()
	res, err := lanes.Layout(history.Log{
		{ID: "A"},
		{ID: "B", Parents: []string{"A"}},
		{ID: "C", Parents: []string{"A"}},
		{ID: "D", Parents: []string{"B", "C"}},
	}, lanes.Options{Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestBuildDiamond(t *testing.T) {
	res := diamondLayout(t)

	want := map[string]struct {
		d     string
		color string
		round bool
	}{
		"B_A": {"M 17.5 20 L 47.5 20", "#1f77b4", true},
		"C_A": {"M 17.5 20 L 17.5 40 Q 17.5 50 27.5 50 L 77.5 50", "#ff7f0e", false},
		"D_B": {"M 47.5 20 L 107.5 20", "#1f77b4", true},
		"D_C": {"M 77.5 50 L 97.5 50 Q 107.5 50 107.5 40 L 107.5 20", "#ff7f0e", false},
	}

	for _, e := range res.Edges {
		p, ok := Build(e, quiet())
		if !ok {
			t.Fatalf("Build(%s) failed", e.ID)
		}
		w := want[e.ID]
		if got := p.D(); got != w.d {
			t.Errorf("%s: D() = %q, want %q", e.ID, got, w.d)
		}
		if p.Color != w.color {
			t.Errorf("%s: Color = %s, want %s", e.ID, p.Color, w.color)
		}
		if p.RoundCap != w.round {
			t.Errorf("%s: RoundCap = %v, want %v", e.ID, p.RoundCap, w.round)
		}
		if p.EdgeID != e.ID || p.Direction != e.Direction {
			t.Errorf("%s: path carries %s/%v", e.ID, p.EdgeID, p.Direction)
		}
	}
}

func TestBuildMissingEndpoint(t *testing.T) {
	var buf bytes.Buffer
	n := &lanes.Node{CommitID: "A"}

	for _, e := range []lanes.Edge{
		{ID: "x", Start: nil, End: n},
		{ID: "y", Start: n, End: nil},
	} {
		buf.Reset()
		p, ok := Build(e, Options{Logger: log.New(&buf)})
		if ok || len(p.Segments) != 0 {
			t.Errorf("Build(%s) = %+v, %v; want empty, false", e.ID, p, ok)
		}
		if buf.Len() == 0 {
			t.Errorf("Build(%s) logged nothing", e.ID)
		}
	}
}

func TestGeometryCases(t *testing.T) {
	s := Point{0, 0}

	tests := []struct {
		name string
		end  Point
		dir  lanes.Direction
		want []Point // From of every segment, then the final To
	}{
		{"out below", Point{50, 30}, lanes.BranchOut, []Point{{0, 0}, {0, 20}, {10, 30}, {50, 30}}},
		{"out above", Point{50, -30}, lanes.BranchOut, []Point{{0, 0}, {0, -20}, {10, -30}, {50, -30}}},
		{"in below", Point{50, 30}, lanes.BranchIn, []Point{{0, 0}, {40, 0}, {50, 10}, {50, 30}}},
		{"in above", Point{50, -30}, lanes.BranchIn, []Point{{0, 0}, {40, 0}, {50, -10}, {50, -30}}},
		{"clamped radius", Point{4, 30}, lanes.BranchOut, []Point{{0, 0}, {0, 26}, {4, 30}, {4, 30}}},
		{"leftward", Point{-50, 30}, lanes.BranchIn, []Point{{0, 0}, {-40, 0}, {-50, 10}, {-50, 30}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Geometry(s, tt.end, tt.dir, DefaultRadius)
			if len(segs) != 3 || segs[1].Kind != Quad {
				t.Fatalf("got %d segments, want line, quad, line", len(segs))
			}
			var got []Point
			for _, seg := range segs {
				got = append(got, seg.From)
			}
			got = append(got, segs[2].To)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGeometryStraight(t *testing.T) {
	for _, dir := range []lanes.Direction{lanes.BranchOut, lanes.BranchIn} {
		segs := Geometry(Point{10, 40}, Point{130, 40}, dir, DefaultRadius)
		if len(segs) != 1 || segs[0].Kind != Line {
			t.Fatalf("%v: got %+v, want one line", dir, segs)
		}
		if l := dist(segs[0].From, segs[0].To); l != 120 {
			t.Errorf("%v: length %v, want 120", dir, l)
		}
	}
}

func TestPathEmpty(t *testing.T) {
	var p Path
	if p.D() != "" || p.Start() != (Point{}) || p.End() != (Point{}) {
		t.Errorf("zero Path: D=%q Start=%v End=%v", p.D(), p.Start(), p.End())
	}
}

func dist(a, b Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

func coord() *rapid.Generator[float64] {
	return rapid.Custom(func(t *rapid.T) float64 {
		return float64(rapid.IntRange(-500, 500).Draw(t, "v")) / 2
	})
}

func direction() *rapid.Generator[lanes.Direction] {
	return rapid.SampledFrom([]lanes.Direction{lanes.BranchOut, lanes.BranchIn})
}

func TestPropertyContinuous(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Point{coord().Draw(t, "sx"), coord().Draw(t, "sy")}
		e := Point{coord().Draw(t, "ex"), coord().Draw(t, "ey")}
		segs := Geometry(s, e, direction().Draw(t, "dir"), DefaultRadius)

		if segs[0].From != s || segs[len(segs)-1].To != e {
			t.Fatalf("path runs %v -> %v, want %v -> %v", segs[0].From, segs[len(segs)-1].To, s, e)
		}
		for i := 1; i < len(segs); i++ {
			if segs[i].From != segs[i-1].To {
				t.Fatalf("gap between segment %d and %d: %v vs %v", i-1, i, segs[i-1].To, segs[i].From)
			}
		}
	})
}

func TestPropertyMirror(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Point{coord().Draw(t, "sx"), coord().Draw(t, "sy")}
		dx := coord().Draw(t, "dx")
		dy := float64(rapid.IntRange(1, 300).Draw(t, "dy"))
		dir := direction().Draw(t, "dir")

		below := Geometry(s, Point{s.X + dx, s.Y + dy}, dir, DefaultRadius)
		above := Geometry(s, Point{s.X + dx, s.Y - dy}, dir, DefaultRadius)

		reflect := func(p Point) Point { return Point{p.X, 2*s.Y - p.Y} }
		if len(below) != len(above) {
			t.Fatalf("segment counts differ: %d vs %d", len(below), len(above))
		}
		for i := range below {
			b, a := below[i], above[i]
			if b.Kind != a.Kind || reflect(b.From) != a.From || reflect(b.Ctrl) != a.Ctrl || reflect(b.To) != a.To {
				t.Fatalf("segment %d is not mirrored: %+v vs %+v", i, b, a)
			}
		}
	})
}

func TestPropertyBranchInReflectsBranchOut(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Point{coord().Draw(t, "sx"), coord().Draw(t, "sy")}
		e := Point{coord().Draw(t, "ex"), coord().Draw(t, "ey")}

		out := Geometry(s, e, lanes.BranchOut, DefaultRadius)
		in := Geometry(s, e, lanes.BranchIn, DefaultRadius)

		reflect := func(p Point) Point { return Point{s.X + e.X - p.X, s.Y + e.Y - p.Y} }
		n := len(out)
		if len(in) != n {
			t.Fatalf("segment counts differ: %d vs %d", n, len(in))
		}
		for i := range out {
			o, r := out[n-1-i], in[i]
			if o.Kind != r.Kind || reflect(o.To) != r.From || reflect(o.From) != r.To {
				t.Fatalf("segment %d: %+v is not the reflection of %+v", i, r, o)
			}
			if o.Kind == Quad && reflect(o.Ctrl) != r.Ctrl {
				t.Fatalf("segment %d control point %v, want %v", i, r.Ctrl, reflect(o.Ctrl))
			}
		}
	})
}
