package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
)

// configCommand creates the settings management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force, defaults bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file",
		Long: `Write a settings file.

On a terminal, init asks for the most common settings. Otherwise, or with
--defaults, it writes the current settings unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.settingsPath()
			if path == "" {
				return errors.New(errors.ErrCodeInvalidPath, "cannot determine the settings path; use --config")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "settings file %s already exists (use --force to overwrite)", path)
			}

			cfg := c.Config
			if isTerminal() && !defaults {
				var err error
				if cfg, err = runConfigForm(cfg); err != nil {
					return err
				}
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			c.Config = cfg

			printSuccess("Settings written")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "skip the questions")

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.settingsPath())
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(c.Config)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// =============================================================================
// Interactive form
// =============================================================================

// isTerminal checks if stdin is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// configAnswers holds the raw form values.
type configAnswers struct {
	hSpacing  string
	level     string
	colorMode string
	dark      bool
	backend   string
	redisURL  string
}

func answersFrom(cfg config.Config) configAnswers {
	return configAnswers{
		hSpacing:  strconv.FormatFloat(cfg.Layout.HorizontalSpacing, 'f', -1, 64),
		level:     strconv.Itoa(cfg.Layout.InitialLevel),
		colorMode: cfg.Display.ColorMode.String(),
		dark:      cfg.Display.DarkMode,
		backend:   cfg.Cache.Backend,
		redisURL:  cfg.Cache.RedisURL,
	}
}

// apply returns cfg updated with the answers.
func (a configAnswers) apply(cfg config.Config) (config.Config, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(a.hSpacing), 64)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "horizontal spacing must be a number, got %q", a.hSpacing)
	}
	level, err := strconv.Atoi(strings.TrimSpace(a.level))
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "initial level must be an integer, got %q", a.level)
	}
	mode, err := color.ParseMode(a.colorMode)
	if err != nil {
		return cfg, err
	}

	cfg.Layout.HorizontalSpacing = h
	cfg.Layout.InitialLevel = level
	cfg.Display.ColorMode = mode
	cfg.Display.DarkMode = a.dark
	cfg.Cache.Backend = a.backend
	cfg.Cache.RedisURL = strings.TrimSpace(a.redisURL)
	if cfg.Cache.Backend != config.BackendRedis {
		cfg.Cache.RedisURL = ""
	}
	return cfg, cfg.Validate()
}

// runConfigForm asks for the common settings, starting from cfg.
func runConfigForm(cfg config.Config) (config.Config, error) {
	a := answersFrom(cfg)

	modes := make([]huh.Option[string], len(color.Modes))
	for i, m := range color.Modes {
		modes[i] = huh.NewOption(m.Title(), m.String())
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Horizontal spacing").
				Description("Distance between depth levels").
				Value(&a.hSpacing).
				Validate(validateFloat),
			huh.NewInput().
				Title("Initial level").
				Description("How many levels are expanded when a document opens").
				Value(&a.level).
				Validate(validateLevel),
			huh.NewSelect[string]().
				Title("Color mode").
				Options(modes...).
				Value(&a.colorMode),
			huh.NewConfirm().
				Title("Use the dark theme?").
				Value(&a.dark),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cache").
				Options(
					huh.NewOption("Local files", config.BackendFile),
					huh.NewOption("Redis", config.BackendRedis),
					huh.NewOption("No caching", config.BackendNone),
				).
				Value(&a.backend),
			huh.NewInput().
				Title("Redis URL (redis backend only)").
				Placeholder("redis://localhost:6379/0").
				Value(&a.redisURL),
		),
	)

	if err := form.Run(); err != nil {
		return cfg, err
	}
	return a.apply(cfg)
}

func validateFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validateLevel(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("enter a whole number, 0 or more")
	}
	return nil
}
