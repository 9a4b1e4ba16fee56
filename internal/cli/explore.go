package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/session"
	"github.com/matzehuels/orgchart/pkg/watch"
)

// exploreCommand creates the explore command, an interactive tree browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		view      viewFlags
		watchFile bool
	)

	cmd := &cobra.Command{
		Use:   "explore [document]",
		Short: "Browse an organization document in the terminal",
		Long: `Browse an organization document in the terminal.

explore shows the tree as an outline colored by the active color mode.
Expand and collapse managers, search, filter, change the color mode and
inspect a person's details. Press ? for the key bindings.

With --watch the document is reloaded whenever it changes on disk. A
version that fails to parse leaves the current view in place.`,
		Example: `  orgchart explore org.json
  orgchart explore org.yaml --level 2 --color emailDomain --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &view)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			opts.Stdin = cmd.InOrStdin()
			return c.runExplore(cmd.Context(), opts, watchFile)
		},
	}

	view.register(cmd)
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload when the document changes")

	return cmd
}

// runExplore loads the document into a session and runs the browser.
func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options, watchFile bool) error {
	remote := strings.Contains(opts.Input, "://") || opts.Input == pipeline.StdinInput
	if watchFile && remote {
		return errors.New(errors.ErrCodeInvalidInput, "--watch needs a local file, got %q", opts.Input)
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	s, err := openSession(doc.Value, opts)
	if err != nil {
		return err
	}

	bridge := &msgBridge{}
	eo := exploreOptions{
		source:         doc.Source,
		format:         opts.Format,
		bridge:         bridge,
		searchDebounce: c.Config.Debounce.Search.Duration,
		sliderDebounce: c.Config.Debounce.Slider.Duration,
		resizeDebounce: c.Config.Debounce.Resize.Duration,
	}
	if !remote {
		eo.path = opts.Input
	}
	m := newExploreModel(s, eo)

	// The alternate screen owns the terminal; log lines would tear it.
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(c.logOut)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.send = p.Send

	if watchFile {
		w, err := watch.New(opts.Input,
			watch.WithLogger(c.Logger),
			watch.WithOnChange(func() { bridge.Send(reloadMsg{}) }),
			watch.WithOnError(func(err error) { bridge.Send(watchErrMsg{err}) }),
		)
		if err != nil {
			return fmt.Errorf("watch %s: %w", opts.Input, err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch %s: %w", opts.Input, err)
		}
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if stderrors.Is(err, tea.ErrProgramKilled) {
			return context.Canceled
		}
		return err
	}
	return nil
}

// openSession builds the session for the browser and applies the initial
// filter, search and reveal of opts.
func openSession(doc any, opts pipeline.Options) (*session.Session, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	s := session.New(opts.SessionOptions()...)
	if _, err := s.Load(doc); err != nil {
		return nil, err
	}
	criteria, err := session.ParseCriteria(opts.Filter)
	if err != nil {
		return nil, err
	}
	if !criteria.IsZero() {
		if _, err := s.ApplyFilter(criteria); err != nil {
			return nil, err
		}
	}
	if opts.Query != "" {
		if _, err := s.Search(opts.Query); err != nil {
			return nil, err
		}
		if opts.Reveal {
			if _, err := s.RevealMatches(); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// msgBridge forwards messages from background goroutines (debouncers and
// the file watcher) into the running program.
type msgBridge struct {
	send func(tea.Msg)
}

// Send delivers msg if a program is attached.
func (b *msgBridge) Send(msg tea.Msg) {
	if b != nil && b.send != nil {
		b.send(msg)
	}
}
