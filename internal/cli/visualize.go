package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a frame.
func (c *CLI) visualizeCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "visualize [frame.json]",
		Short: "Render a computed frame",
		Long: `Render a computed frame.

The visualize command takes a frame file (produced by 'layout' or
'render -f json') and draws it as SVG, PNG or Graphviz output. The frame
contains all positions and colors, so this step is purely about drawing.

Use 'render' as a shortcut to go directly from a document to output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Logger: c.Logger}
			if err := flags.apply(&opts); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

// runVisualize loads the frame and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	f, err := graph.ReadFrameFile(input)
	if err != nil {
		return fmt.Errorf("load frame %s: %w", input, err)
	}
	opts.DarkMode = f.Theme == graph.ThemeDark

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, f, "", opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    flags.output,
		nodes:     len(f.Nodes),
		links:     len(f.Links),
		cacheHit:  cacheHit,
	})
	return err
}
