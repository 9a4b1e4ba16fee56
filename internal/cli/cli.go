// Package cli implements the orgchart command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "orgchart"

	// frameSuffix marks frame files written by the layout command.
	frameSuffix = ".frame"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is the loaded settings file. Flags override it per command.
	Config config.Config

	configPath string
	logOut     io.Writer
}

// New creates a new CLI instance with a default logger and the built-in
// settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		logOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "orgchart",
		Short: "Orgchart turns organization documents into interactive tree charts",
		Long: `Orgchart reads a JSON or YAML organization document (people with nested
"children") and draws it as a horizontal tree: as SVG, PNG, Graphviz or
frame JSON, or live in the terminal with the explore command.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: $XDG_CONFIG_HOME/orgchart/config.toml)")

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the settings file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded settings", "path", c.settingsPath())
	return nil
}

// settingsPath returns the settings file in use.
func (c *CLI) settingsPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	p, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the cache backend selected in the settings. A file cache
// that cannot be created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL, cache.WithKeyPrefix(appName+":"))
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "dir", dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/orgchart/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// basePath derives the base output path from the output and input paths.
// If output is empty, the extension of input is stripped. A known format
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == pipeline.StdinInput || strings.Contains(input, "://") {
			return appName
		}
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, frameSuffix)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the settings file.
// Flags set on the command line override it; see viewOptions.
func (c *CLI) baseOptions() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		Level:             cfg.Layout.InitialLevel,
		HorizontalSpacing: cfg.Layout.HorizontalSpacing,
		VerticalSpacing:   cfg.Layout.VerticalSpacing,
		NodeSize:          cfg.Layout.NodeSize,
		Extent:            cfg.Layout.Extent,
		ColorMode:         cfg.Display.ColorMode.String(),
		DarkMode:          cfg.Display.DarkMode,
		LicenseField:      cfg.Display.LicenseField,
		SearchFields:      cfg.Search.Fields,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openOutput returns a writer for path, or stdout when path is empty or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
