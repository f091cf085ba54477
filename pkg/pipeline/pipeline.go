// Package pipeline provides the load → layout → render pipeline shared by
// every gitlanes command.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a commit log from a file, a repository or memory, and drop
//     excluded commits
//  2. Layout: assign lanes, build connector geometry and resolve visual
//     styles into a serializable [graph.Layout]
//  3. Render: produce SVG, PNG, PDF, JSON, BSON or DOT output
//
// Each stage can be run on its own or through a [Runner], which caches
// layouts and artifacts and reports to the observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "history.json",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	commits, err := pipeline.Load(ctx, opts)
//	layout, stats, err := pipeline.GenerateLayout(ctx, commits, opts)
//	artifacts, err := pipeline.Render(layout, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/cache"
	"github.com/matzehuels/gitlanes/pkg/connector"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/history"
	"github.com/matzehuels/gitlanes/pkg/lanes"
	"github.com/matzehuels/gitlanes/pkg/visual"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = graph.VizTypeLanes

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatBSON = "bson"
	FormatDOT  = "dot"
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatBSON, FormatDOT}

// VizTypes lists the supported visualization types.
var VizTypes = []string{graph.VizTypeLanes, graph.VizTypeNodelink}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. Zero values are
// replaced by [Options.SetDefaults].
type Options struct {
	// Load options. Commits takes precedence over Repo, Repo over Input.
	Input   string      `json:"input,omitempty"`
	Repo    string      `json:"repo,omitempty"`
	Revs    []string    `json:"revs,omitempty"`
	All     bool        `json:"all,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Exclude []string    `json:"exclude,omitempty"`
	Strict  bool        `json:"strict,omitempty"` // abort on history validation errors
	Commits history.Log `json:"-"`

	// Layout options
	VizType     string   `json:"viz_type,omitempty"`
	RowSpacing  float64  `json:"row_spacing,omitempty"`
	LaneSpacing float64  `json:"lane_spacing,omitempty"`
	Margin      float64  `json:"margin,omitempty"`
	NodeWidth   float64  `json:"node_width,omitempty"`
	NodeHeight  float64  `json:"node_height,omitempty"`
	Release     string   `json:"release,omitempty"`
	Radius      float64  `json:"radius,omitempty"`
	Palette     []string `json:"palette,omitempty"`
	StrokeWidth float64  `json:"stroke_width,omitempty"`
	Selected    []string `json:"selected,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // row/lane/kind in DOT labels
	Background  string   `json:"background,omitempty"`
	Scale       float64  `json:"scale,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger      *log.Logger `json:"-"`
	Concurrency int         `json:"-"` // connector workers; GOMAXPROCS when zero
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// PassID identifies the layout pass that produced Layout. It is also the
	// SVG element namespace when interactive output is requested.
	PassID string

	// LogHash is the content hash of the loaded commit log.
	LogHash string

	Layout    graph.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commits    int
	Lanes      int
	Rows       int
	Edges      int
	Connectors int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is supported.
func ValidateVizType(vizType string) error {
	if !slices.Contains(VizTypes, vizType) {
		return fmt.Errorf("invalid viz_type: %q (must be one of: %s)", vizType, strings.Join(VizTypes, ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero values. It is idempotent.
func (o *Options) SetDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	def := lanes.DefaultSpacing()
	if o.RowSpacing == 0 {
		o.RowSpacing = def.RowSpacing
	}
	if o.LaneSpacing == 0 {
		o.LaneSpacing = def.LaneSpacing
	}
	if o.Margin == 0 {
		o.Margin = def.Margin
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = def.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = def.NodeHeight
	}
	if o.Radius == 0 {
		o.Radius = connector.DefaultRadius
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = visual.BaseWidth
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every option.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if len(o.Commits) == 0 && o.Input == "" && o.Repo == "" {
		return fmt.Errorf("input or repo is required")
	}
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := lanes.ParseReleasePolicy(o.Release); err != nil {
		return err
	}
	if err := connector.Palette(o.Palette).Validate(); err != nil {
		return err
	}
	if o.Scale < 0 || o.StrokeWidth < 0 || o.Radius < 0 {
		return fmt.Errorf("scale, stroke width and radius must not be negative")
	}
	return nil
}

// IsNodelink returns true if this is a node-link visualization.
func (o *Options) IsNodelink() bool { return o.VizType == graph.VizTypeNodelink }

// Spacing returns the lane spacing described by the options.
func (o *Options) Spacing() lanes.Spacing {
	return lanes.Spacing{
		RowSpacing:  o.RowSpacing,
		LaneSpacing: o.LaneSpacing,
		Margin:      o.Margin,
		NodeWidth:   o.NodeWidth,
		NodeHeight:  o.NodeHeight,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:     o.VizType,
		RowSpacing:  o.RowSpacing,
		LaneSpacing: o.LaneSpacing,
		Margin:      o.Margin,
		NodeWidth:   o.NodeWidth,
		NodeHeight:  o.NodeHeight,
		Release:     o.Release,
		Radius:      o.Radius,
		StrokeWidth: o.StrokeWidth,
		Palette:     o.Palette,
		Exclude:     o.Exclude,
		Selected:    o.Selected,
		Detailed:    o.IsNodelink() && o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Interactive: o.Interactive,
		Labels:      o.Labels,
		Detailed:    o.Detailed,
		Background:  o.Background,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
