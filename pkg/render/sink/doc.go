// Package sink provides output format renderers for lane timelines.
//
// # Overview
//
// A "sink" transforms a serialized [graph.Layout] into a final output
// format:
//
//   - SVG: Scalable vector graphics with hover and selection
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// JSON and BSON output are the layout itself; see [graph.MarshalLayout].
//
// # SVG Output
//
// [RenderSVG] draws every connector as a path below the commit circles.
// Element IDs are "edge-<child>_<parent>" and "node-<commit>", optionally
// prefixed with a namespace. Each element carries its resolved style as
// stroke attributes plus data-* attributes that the optional script uses to
// repaint it on hover and click.
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithNamespace(layout.PassID),
//	    sink.WithInteraction(),
//	    sink.WithLabels(),
//	)
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render the SVG first and convert it with
// [render.ToPDF] and [render.ToPNG]:
//
//	pdf, err := sink.RenderPDF(layout, opts...)
//	png, err := sink.RenderPNG(layout, sink.WithScale(2))
//
// These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [graph.Layout]: github.com/matzehuels/gitlanes/pkg/graph#Layout
// [graph.MarshalLayout]: github.com/matzehuels/gitlanes/pkg/graph#MarshalLayout
// [render.ToPDF]: github.com/matzehuels/gitlanes/pkg/render#ToPDF
// [render.ToPNG]: github.com/matzehuels/gitlanes/pkg/render#ToPNG
package sink
