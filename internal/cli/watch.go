package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/watch"
)

// watchCommand creates the watch command that re-renders on change.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		view      viewFlags
		output    renderFlags
		forcePoll bool
	)

	cmd := &cobra.Command{
		Use:   "watch [document]",
		Short: "Re-render a document every time it changes",
		Long: `Re-render a document every time it changes.

watch renders once, then watches the file and renders again after every
change. Changes arriving in quick succession are coalesced. A document that
fails to parse keeps the last good output in place and logs a warning.

Press Ctrl+C to stop.`,
		Example: `  orgchart watch org.json -o org.svg
  orgchart watch org.yaml -f svg,png --level 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.Contains(args[0], "://") || args[0] == pipeline.StdinInput {
				return errors.New(errors.ErrCodeInvalidInput, "watch needs a local file, got %q", args[0])
			}
			opts, err := c.viewOptions(cmd, &view)
			if err != nil {
				return err
			}
			if err := output.apply(&opts); err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runWatch(cmd.Context(), opts, output, forcePoll)
		},
	}

	view.register(cmd)
	output.register(cmd)
	cmd.Flags().BoolVar(&forcePoll, "poll", false, "poll for changes instead of using file system events")

	return cmd
}

// runWatch renders opts.Input now and after every change until ctx ends.
func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, flags renderFlags, forcePoll bool) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	wr := &watchRenderer{cli: c, runner: runner, opts: opts, output: flags.output}
	if err := wr.render(ctx); err != nil {
		return err
	}

	w, err := watch.New(opts.Input,
		watch.WithForcePoll(forcePoll),
		watch.WithLogger(c.Logger),
		watch.WithOnError(func(err error) {
			if stderrors.Is(err, watch.ErrFileRemoved) {
				c.Logger.Warn("document removed, waiting for it to come back", "path", opts.Input)
				return
			}
			c.Logger.Error("watch", "err", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("watch %s: %w", opts.Input, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", opts.Input, err)
	}
	defer w.Stop()

	printInfo("Watching %s (Ctrl+C to stop)", opts.Input)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.Changed():
			if err := wr.render(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.Logger.Error("render failed", "err", errors.UserMessage(err))
			}
		}
	}
}

// watchRenderer renders one document repeatedly. Output files are only
// replaced after a successful render.
type watchRenderer struct {
	cli    *CLI
	runner *pipeline.Runner
	opts   pipeline.Options
	output string

	renders int
}

// render runs the pipeline once. A parse error is reported as a warning
// and leaves the previous output untouched.
func (wr *watchRenderer) render(ctx context.Context) error {
	p := newProgress(wr.cli.Logger)
	result, err := wr.runner.Execute(ctx, wr.opts)
	if err != nil {
		if errors.IsParse(err) && wr.renders > 0 {
			wr.cli.Logger.Warn("document does not parse, keeping last good output", "path", wr.opts.Input, "err", errors.UserMessage(err))
			return nil
		}
		return err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   wr.opts.Formats,
		input:     wr.opts.Input,
		output:    wr.output,
		quiet:     true,
	})
	if err != nil {
		return err
	}
	wr.renders++
	for _, w := range result.Warnings {
		wr.cli.Logger.Debug("document shape", "warning", w)
	}
	p.done(fmt.Sprintf("Rendered %s (%d nodes)", strings.Join(paths, ", "), result.Stats.NodeCount))
	return nil
}
