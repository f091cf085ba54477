package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/pipeline"
)

// layoutCommand creates the layout command for computing lane layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		format  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout <input>",
		Short: "Compute the lane layout of a commit history",
		Long: `Compute the lane layout of a commit history.

The input is a git repository directory, a JSON commit log, a 'git log
--format="%H %P"' text file, or "-" to read either from stdin. The output is
a layout.json file (same format as 'render -f json') that 'render' accepts
as input, so a layout can be computed once and drawn many times.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.cfg)
			opts.Refresh = refresh
			if err := resolveInput(args[0], cmd.InOrStdin(), &opts); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], opts, output, format)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, stdout for -)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "layout encoding: json, bson")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatJSON, pipeline.FormatBSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runLayout loads the history, computes the layout and writes it out.
func (c *CLI) runLayout(ctx context.Context, stdout io.Writer, input string, opts pipeline.Options, output, format string) error {
	var encode func(graph.Layout) ([]byte, error)
	switch format {
	case pipeline.FormatJSON:
		encode = graph.MarshalLayout
	case pipeline.FormatBSON:
		encode = graph.MarshalLayoutBSON
	default:
		return fmt.Errorf("unsupported layout format: %s (use json or bson)", format)
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.VizType))
	spinner.Start()
	p := newProgress(c.Logger)

	l, stats, hit, err := runner.Layout(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	p.done(fmt.Sprintf("Laid out %d commits", stats.Commits))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := encode(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	path := output
	if path == "" && input != "-" {
		path = outputBase(input) + ".layout." + format
	}
	if err := writeFile(stdout, path, data); err != nil {
		return err
	}

	if path == "" {
		return nil
	}
	printSuccess("Layout complete")
	printFile(path)
	printStats(stats, hit)
	printNewline()
	printNextStep("Render", appName+" render "+path)
	return nil
}

// writeFile writes data to path, or to stdout when path is empty.
func writeFile(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
