package pipeline

import (
	"fmt"

	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/render/nodelink"
	"github.com/matzehuels/gitlanes/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. The layout's
// viz type picks the renderer; JSON, BSON and DOT are available for both.
func Render(l graph.Layout, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if l.IsNodelink() {
		return renderNodelink(l, opts)
	}
	return renderLanes(l, opts)
}

func renderLanes(l graph.Layout, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(l, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		default:
			data, err = renderData(l, format, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(l graph.Layout, opts Options) (map[string][]byte, error) {
	if l.DOT == "" {
		return nil, fmt.Errorf("nodelink layout missing DOT string")
	}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(l.DOT)
		case FormatPNG:
			data, err = nodelink.RenderPNG(l.DOT, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(l.DOT)
		case FormatDOT:
			data = []byte(l.DOT)
		default:
			data, err = renderData(l, format, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderData handles the formats that serialize the layout itself.
func renderData(l graph.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalLayout(l)
	case FormatBSON:
		return graph.MarshalLayoutBSON(l)
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func buildSVGOptions(l graph.Layout, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStrokeWidth(opts.StrokeWidth)}
	if opts.Interactive {
		// Several interactive drawings may share a page.
		svgOpts = append(svgOpts, sink.WithInteraction(), sink.WithNamespace(l.PassID))
	}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}

// RenderFromLayoutData renders output from serialized layout data, for
// layouts computed elsewhere.
func RenderFromLayoutData(data []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(l, opts)
}
