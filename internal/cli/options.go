package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/config"
	"github.com/matzehuels/gitlanes/pkg/history"
	"github.com/matzehuels/gitlanes/pkg/pipeline"
)

// layoutFlags are the flags shared by every command that lays out a
// history. Values left unset on the command line come from the config
// file, then from pipeline defaults.
type layoutFlags struct {
	vizType     string
	rowSpacing  float64
	laneSpacing float64
	margin      float64
	nodeWidth   float64
	nodeHeight  float64
	release     string
	radius      float64
	strokeWidth float64
	palette     []string
	exclude     []string
	selected    []string
	revs        []string
	all         bool
	limit       int
	strict      bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: lanes, nodelink")
	fs.Float64Var(&f.rowSpacing, "row-spacing", 0, "distance between rows (default 30)")
	fs.Float64Var(&f.laneSpacing, "lane-spacing", 0, "distance between lanes (default 30)")
	fs.Float64Var(&f.margin, "margin", 0, "padding around the graph (default 10)")
	fs.Float64Var(&f.nodeWidth, "node-width", 0, "commit marker width (default 15)")
	fs.Float64Var(&f.nodeHeight, "node-height", 0, "commit marker height (default 20)")
	fs.StringVar(&f.release, "release", "", "lane of a branch tip: release (default) or reserve")
	fs.Float64Var(&f.radius, "radius", 0, "connector corner radius (default 10)")
	fs.Float64Var(&f.strokeWidth, "stroke-width", 0, "connector width (default 3)")
	fs.StringSliceVar(&f.palette, "palette", nil, "lane colors as hex, comma-separated")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "drop commits whose ID starts with any of these prefixes")
	fs.StringSliceVar(&f.selected, "select", nil, "commits to draw selected, with their edges")
	fs.StringSliceVar(&f.revs, "rev", nil, "revisions passed to git log when the input is a repository")
	fs.BoolVar(&f.all, "all", false, "include every ref when the input is a repository")
	fs.IntVar(&f.limit, "limit", 0, "maximum number of commits loaded from a repository")
	fs.BoolVar(&f.strict, "strict", false, "fail on malformed histories instead of skipping commits")

	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(pipeline.VizTypes, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("release", cobra.FixedCompletions([]string{"release", "reserve"}, cobra.ShellCompDirectiveNoFileComp))
}

// options builds pipeline options from the config file and the flags that
// were set on cmd.
func (f *layoutFlags) options(cmd *cobra.Command, cfg config.Config) pipeline.Options {
	opts := pipeline.Options{
		RowSpacing:  cfg.Layout.RowSpacing,
		LaneSpacing: cfg.Layout.LaneSpacing,
		Margin:      cfg.Layout.Margin,
		NodeWidth:   cfg.Layout.NodeWidth,
		NodeHeight:  cfg.Layout.NodeHeight,
		Release:     cfg.Layout.ReleasePolicy,
		Radius:      cfg.Style.CornerRadius,
		StrokeWidth: cfg.Style.StrokeWidth,
		Palette:     cfg.Style.Palette,
	}

	changed := cmd.Flags().Changed
	opts.VizType = f.vizType
	setIf(changed("row-spacing"), &opts.RowSpacing, f.rowSpacing)
	setIf(changed("lane-spacing"), &opts.LaneSpacing, f.laneSpacing)
	setIf(changed("margin"), &opts.Margin, f.margin)
	setIf(changed("node-width"), &opts.NodeWidth, f.nodeWidth)
	setIf(changed("node-height"), &opts.NodeHeight, f.nodeHeight)
	setIf(changed("release"), &opts.Release, f.release)
	setIf(changed("radius"), &opts.Radius, f.radius)
	setIf(changed("stroke-width"), &opts.StrokeWidth, f.strokeWidth)
	setIf(changed("palette"), &opts.Palette, f.palette)

	opts.Exclude = f.exclude
	opts.Selected = f.selected
	opts.Revs = f.revs
	opts.All = f.all
	opts.Limit = f.limit
	opts.Strict = f.strict
	return opts
}

func setIf[T any](ok bool, dst *T, v T) {
	if ok {
		*dst = v
	}
}

// resolveInput points opts at arg: "-" reads a commit log from stdin, a
// directory is loaded as a git repository and anything else is a file.
func resolveInput(arg string, stdin io.Reader, opts *pipeline.Options) error {
	if arg == "-" {
		commits, err := readLog(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		opts.Commits = commits
		return nil
	}
	info, err := os.Stat(arg)
	if err != nil {
		return fmt.Errorf("input %s: %w", arg, err)
	}
	if info.IsDir() {
		opts.Repo = arg
	} else {
		opts.Input = arg
	}
	return nil
}

// readLog decodes JSON when the first non-blank byte opens an array and git
// log text otherwise.
func readLog(r io.Reader) (history.Log, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		if bytes.ContainsAny(b, " \t\r\n") {
			_, _ = br.ReadByte()
			continue
		}
		if b[0] == '[' {
			return history.ReadJSON(br)
		}
		return history.ParseGitLog(br)
	}
}
