package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/pipeline"
)

// layoutSuffix marks files written by the layout command.
const layoutSuffix = ".layout.json"

// renderOpts holds the render-only flags. Layout flags live in layoutFlags.
type renderOpts struct {
	output      string
	formats     string
	interactive bool
	labels      bool
	detailed    bool
	background  string
	scale       float64
	refresh     bool
	watch       bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags layoutFlags
		ro    renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a commit history as SVG, PNG, PDF or data",
		Long: `Render a commit history as a lane graph.

The input is anything 'layout' accepts, or a *.layout.json file produced by
'layout', which is rendered without recomputing the layout.

Formats: svg (default), png, pdf, json, bson, dot. PNG and PDF need
rsvg-convert on PATH for the lanes view.

With --watch the input is rendered again whenever it changes on disk, until
interrupted.`,
		Example: `  gitlanes render . -f svg,png
  git log --all --format="%H %P" | gitlanes render - -o history.svg
  gitlanes render history.json --interactive --select a1b2c3 --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.cfg)
			ro.apply(&opts)
			input := args[0]

			if strings.HasSuffix(input, layoutSuffix) {
				return c.renderLayoutFile(cmd.OutOrStdout(), input, opts, ro.output)
			}
			if err := resolveInput(input, cmd.InOrStdin(), &opts); err != nil {
				return err
			}
			if ro.watch {
				if opts.Commits != nil {
					return fmt.Errorf("--watch needs a file or repository input, not stdin")
				}
				return c.watch(cmd.Context(), cmd.OutOrStdout(), input, opts, ro.output)
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), input, opts, ro.output)
		},
	}

	flags.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&ro.output, "output", "o", "", "output file, or base path for several formats (default: derived from input)")
	fs.StringVarP(&ro.formats, "format", "f", pipeline.FormatSVG, "output formats, comma-separated: "+strings.Join(pipeline.Formats, ", "))
	fs.BoolVar(&ro.interactive, "interactive", false, "add hover and click behavior to SVG output")
	fs.BoolVar(&ro.labels, "labels", false, "print short commit IDs next to nodes")
	fs.BoolVar(&ro.detailed, "detailed", false, "include row, lane and edge kind in DOT labels")
	fs.StringVar(&ro.background, "background", "", "SVG background color (default: transparent)")
	fs.Float64Var(&ro.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	fs.BoolVar(&ro.refresh, "refresh", false, "ignore cached layouts and artifacts")
	fs.BoolVarP(&ro.watch, "watch", "w", false, "re-render when the input changes")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(pipeline.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (ro *renderOpts) apply(opts *pipeline.Options) {
	opts.Formats = parseFormats(ro.formats)
	opts.Interactive = ro.interactive
	opts.Labels = ro.labels
	opts.Detailed = ro.detailed
	opts.Background = ro.background
	opts.Scale = ro.scale
	opts.Refresh = ro.refresh
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, input string, opts pipeline.Options, output string) error {
	runner := c.newRunner(ctx)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(stdout, result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// renderLayoutFile renders a layout computed earlier by the layout command.
func (c *CLI) renderLayoutFile(stdout io.Writer, input string, opts pipeline.Options, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read layout %s: %w", input, err)
	}
	opts.Logger = c.Logger
	artifacts, err := pipeline.RenderFromLayoutData(data, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(stdout, artifacts, opts.Formats, strings.TrimSuffix(input, layoutSuffix), output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each artifact and returns the written paths in
// format order. A single artifact with stdin input and no output goes to
// stdout and yields no path. Derived names of data formats carry a .layout
// infix so they never replace a JSON input.
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 && output == "" && input == "-" {
		return nil, writeFile(stdout, "", artifacts[formats[0]])
	}
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		return []string{output}, writeFile(stdout, output, artifacts[formats[0]])
	}

	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if output == "" && (format == pipeline.FormatJSON || format == pipeline.FormatBSON) {
			path = base + ".layout." + format
		}
		if err := writeFile(stdout, path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the output base from the output and input paths. A known
// format extension on output is stripped. Stdin input defaults to "gitlanes"
// and a repository directory to its name.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	return outputBase(input)
}

// outputBase returns input without its extension, or a name for inputs that
// are not plain files.
func outputBase(input string) string {
	if input == "-" || input == "" {
		return appName
	}
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		abs, err := filepath.Abs(input)
		if err != nil {
			return appName
		}
		return filepath.Base(abs)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
