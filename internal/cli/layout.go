package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// layoutCommand creates the layout command for computing frames.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   viewFlags
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [document]",
		Short: "Compute the positioned frame of an organization document",
		Long: `Compute the positioned frame of an organization document.

The layout command expands the document to the requested level, applies
filter and search, and writes the resulting frame (node positions, link
paths, colors and legend) as JSON. The frame can be drawn later with the
'visualize' command, or consumed by other tools.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			opts.Stdin = cmd.InOrStdin()
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.frame.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runLayout loads the document, computes the frame, and writes it.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	fr, cacheHit, err := runner.FrameWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Input) + frameSuffix + ".json"
	}
	if outputPath == "-" {
		return graph.WriteFrame(fr.Frame, os.Stdout)
	}
	if err := graph.WriteFrameFile(fr.Frame, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(fr.Frame.Nodes), len(fr.Frame.Links), cacheHit)
	printWarnings(fr.Warnings, maxPrintedWarnings)
	printNewline()
	printNextStep("Render", "orgchart visualize "+outputPath)

	return nil
}
