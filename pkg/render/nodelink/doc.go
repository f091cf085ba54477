// Package nodelink draws a layout's commit DAG with Graphviz instead of lanes.
//
// Graphviz picks its own ranks, so rows and lanes from the layout only show
// up in labels ([Options].Detailed). Lane colors are carried over, which
// keeps a commit the same color in both views.
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot, 2)
//
// Commits point to their children from left to right (rankdir=LR). Merge
// commits are drawn as double circles and the edges merged into them are
// dashed.
//
// SVG comes from [github.com/goccy/go-graphviz] in process; [RenderPDF] and
// [RenderPNG] convert that SVG with rsvg-convert.
package nodelink
