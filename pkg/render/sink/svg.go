package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/gitlanes/pkg/connector"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/visual"
)

const interactionCSS = `
    .connector, .commit { transition: stroke-width 0.15s ease; cursor: pointer; }
    .commit-label { font: 9px monospace; fill: #555; pointer-events: none; }`

// The script applies the same rules as visual.Controller: hover widens
// Default elements only, selection is persisted in data-state, and a
// highlight ends on pointer leave.
const interactionJS = `
    function paint(el) {
      const base = parseFloat(el.dataset.baseWidth);
      if (el.dataset.state === 'selected' || el.dataset.highlight === 'true') {
        el.setAttribute('stroke-width', base + 3);
        el.setAttribute('stroke', el.dataset.bright);
      } else {
        el.setAttribute('stroke-width', el.dataset.hover === 'true' ? base + 1 : base);
        el.setAttribute('stroke', el.dataset.color);
      }
    }
    function highlightEdges(commit, on) {
      document.querySelectorAll('.connector').forEach(c => {
        if (c.dataset.from === commit || c.dataset.to === commit) {
          c.dataset.highlight = on ? 'true' : 'false';
          paint(c);
        }
      });
    }
    document.querySelectorAll('.connector, .commit').forEach(el => {
      el.addEventListener('mouseenter', () => {
        el.dataset.hover = 'true';
        paint(el);
        if (el.dataset.commit) highlightEdges(el.dataset.commit, true);
      });
      el.addEventListener('mouseleave', () => {
        el.dataset.hover = 'false';
        el.dataset.highlight = 'false';
        paint(el);
        if (el.dataset.commit) highlightEdges(el.dataset.commit, false);
      });
      el.addEventListener('click', () => {
        el.dataset.state = el.dataset.state === 'selected' ? 'default' : 'selected';
        paint(el);
      });
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	baseWidth   float64
	interactive bool
	labels      bool
	namespace   string
	background  string
}

// WithInteraction embeds the hover and selection script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithLabels draws the short commit ID next to every node.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithNamespace prefixes every element ID, usually with the pass ID, so
// drawables of different passes never share IDs.
func WithNamespace(ns string) SVGOption { return func(r *svgRenderer) { r.namespace = ns } }

// WithStrokeWidth sets the resting stroke width the script returns elements
// to, and the width of elements without a resolved style.
func WithStrokeWidth(w float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 {
			r.baseWidth = w
		}
	}
}

// WithBackground fills the frame with a color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// RenderSVG renders a lane layout. Connectors are drawn below the commits.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{baseWidth: visual.BaseWidth}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f"`,
		l.Width, l.Height, l.Width, l.Height)
	if l.PassID != "" {
		fmt.Fprintf(&buf, ` data-pass="%s"`, attr(l.PassID))
	}
	buf.WriteString(">\n")

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", attr(r.background))
	}

	buf.WriteString("  <g class=\"connectors\" fill=\"none\">\n")
	for _, e := range l.Edges {
		r.renderEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"commits\">\n")
	for _, n := range l.Nodes {
		r.renderNode(&buf, l.Spacing, n)
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, e graph.Edge) {
	if e.D == "" {
		return
	}
	st := r.resolve(e.Style, e.Color)
	fmt.Fprintf(buf, `    <path id="%s" class="connector" d="%s" stroke="%s" stroke-width="%g"`,
		attr(r.id("edge", e.ID)), e.D, attr(st.Color), st.Width)
	if e.RoundCap {
		buf.WriteString(` stroke-linecap="round"`)
	}
	fmt.Fprintf(buf, ` data-from="%s" data-to="%s" data-direction="%s"`, attr(e.From), attr(e.To), e.Direction)
	r.writeState(buf, e.Style, e.Color)
	buf.WriteString("/>\n")
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, s graph.Spacing, n graph.Node) {
	cx, cy := n.X+s.NodeWidth/2, n.Y+s.NodeHeight/2
	radius := math.Min(s.NodeWidth, s.NodeHeight) / 2
	st := r.resolve(n.Style, n.Color)

	fill := n.Color
	if n.IsMerge() {
		fill = "#ffffff"
	}
	fmt.Fprintf(buf, `    <circle id="%s" class="commit %s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%g" data-commit="%s"`,
		attr(r.id("node", n.ID)), n.Kind, cx, cy, radius, attr(fill), attr(st.Color), st.Width, attr(n.ID))
	r.writeState(buf, n.Style, n.Color)
	fmt.Fprintf(buf, "><title>%s</title></circle>\n", html.EscapeString(n.ID))

	if r.labels {
		lx, ly := cx+radius+2, cy-radius-2
		fmt.Fprintf(buf, `    <text class="commit-label" x="%.1f" y="%.1f" transform="rotate(-45 %.1f %.1f)">%s</text>`+"\n",
			lx, ly, lx, ly, html.EscapeString(n.ShortID()))
	}
}

// writeState stores what the script needs to repaint an element. A
// highlight is transient, so it is written as a flag over the Default state.
func (r *svgRenderer) writeState(buf *bytes.Buffer, s *graph.Style, color string) {
	state, highlight := visual.Default.String(), false
	if s != nil {
		state = s.State
	}
	if state == visual.Highlight.String() {
		state, highlight = visual.Default.String(), true
	}
	fmt.Fprintf(buf, ` data-state="%s" data-highlight="%t" data-base-width="%g" data-color="%s" data-bright="%s"`,
		attr(state), highlight, r.baseWidth, attr(color), attr(connector.Brighten(color, visual.BrightenAmount)))
}

func (r *svgRenderer) id(kind, id string) string {
	if r.namespace == "" {
		return kind + "-" + id
	}
	return r.namespace + "-" + kind + "-" + id
}

func (r *svgRenderer) resolve(s *graph.Style, color string) graph.Style {
	if s == nil {
		return graph.Style{State: visual.Default.String(), Width: r.baseWidth, Color: color}
	}
	return *s
}

func attr(s string) string { return html.EscapeString(s) }
