// Package render provides visualization rendering for laid-out commit graphs.
//
// # Overview
//
// Every renderer consumes a serialized [graph.Layout], so cached layouts
// render exactly like fresh ones. This package provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Lane timeline output (in [sink] subpackage)
//   - Node-link diagrams of the commit DAG (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(layout, sink.WithInteraction())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the commit DAG with Graphviz as an
// alternative to the lane timeline.
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [graph.Layout]: github.com/matzehuels/gitlanes/pkg/graph#Layout
// [sink]: github.com/matzehuels/gitlanes/pkg/render/sink
// [nodelink]: github.com/matzehuels/gitlanes/pkg/render/nodelink
package render
