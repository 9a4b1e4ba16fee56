package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// renderCommand creates the render command: document in, artifacts out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		view   viewFlags
		output renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render an organization document to SVG, PNG, JSON or DOT",
		Long: `Render an organization document to SVG, PNG, JSON or DOT.

render runs the whole pipeline: it loads the document (file, URL or "-"
for stdin), expands it to the requested level, applies filter and search,
and draws the result in every requested format. Formats are rendered
concurrently.

The tree type draws the horizontal tree with curved links and a color
legend. The nodelink type hands the visible tree to Graphviz.

Results are cached locally for faster subsequent runs.`,
		Example: `  orgchart render org.json
  orgchart render org.yaml -f svg,png -o out/org --level 3
  orgchart render org.json --filter engineering --search ada --reveal
  orgchart render org.json -t nodelink -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &view)
			if err != nil {
				return err
			}
			if err := output.apply(&opts); err != nil {
				return err
			}
			opts.Input = args[0]
			opts.Stdin = cmd.InOrStdin()
			return c.runRender(cmd.Context(), opts, output)
		},
	}

	view.register(cmd)
	output.register(cmd)

	return cmd
}

// runRender executes the pipeline and writes its artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
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

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    flags.output,
		nodes:     result.Stats.NodeCount,
		links:     result.Stats.LinkCount,
		cacheHit:  result.CacheInfo.FrameHit && result.CacheInfo.RenderHit,
		quiet:     flags.output == "-",
	})
	if err != nil {
		return err
	}
	if flags.output != "-" {
		printWarnings(result.Warnings, maxPrintedWarnings)
	}
	return nil
}
