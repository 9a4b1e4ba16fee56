// Package config loads and saves user settings for the orgchart tools.
//
// Settings live in a TOML file at $XDG_CONFIG_HOME/orgchart/config.toml
// (falling back to ~/.config/orgchart/config.toml). Every field is optional;
// missing fields keep the values from [Default]. Command-line flags override
// the file.
//
// Example:
//
//	[layout]
//	horizontal_spacing = 200
//	initial_level = 2
//
//	[display]
//	color_mode = "emailDomain"
//	dark_mode = true
//
//	[debounce]
//	search = "250ms"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/debounce"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/reconcile"
	"github.com/matzehuels/orgchart/pkg/search"
)

const (
	appName  = "orgchart"
	fileName = "config.toml"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultCacheTTL is the lifetime of cached render artifacts.
const DefaultCacheTTL = 24 * time.Hour

// Duration is a time.Duration written as a string such as "300ms".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config is the full settings file.
type Config struct {
	Layout   Layout   `toml:"layout"`
	Display  Display  `toml:"display"`
	Search   Search   `toml:"search"`
	Debounce Debounce `toml:"debounce"`
	Cache    Cache    `toml:"cache"`
}

// Layout holds layout parameters.
type Layout struct {
	HorizontalSpacing float64 `toml:"horizontal_spacing"`
	VerticalSpacing   float64 `toml:"vertical_spacing"`
	NodeSize          float64 `toml:"node_size"`
	Extent            float64 `toml:"extent"`
	InitialLevel      int     `toml:"initial_level"`
}

// Display holds rendering preferences.
type Display struct {
	ColorMode    color.Mode `toml:"color_mode"`
	DarkMode     bool       `toml:"dark_mode"`
	LicenseField string     `toml:"license_field"`
	Duration     Duration   `toml:"duration"`
}

// Search holds search settings.
type Search struct {
	Fields []string `toml:"fields"`
}

// Debounce holds the quiet windows of the interactive input streams.
type Debounce struct {
	Slider Duration `toml:"slider"`
	Search Duration `toml:"search"`
	Resize Duration `toml:"resize"`
}

// Cache selects where render artifacts are cached.
type Cache struct {
	Backend  string   `toml:"backend"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: Layout{
			HorizontalSpacing: layout.DefaultHorizontalSpacing,
			VerticalSpacing:   layout.DefaultVerticalSpacing,
			NodeSize:          layout.DefaultNodeSize,
			InitialLevel:      1,
		},
		Display: Display{
			ColorMode:    color.Department,
			LicenseField: hierarchy.KeyLicense,
			Duration:     Duration{reconcile.DefaultDuration},
		},
		Search: Search{
			Fields: append([]string(nil), search.DefaultFields...),
		},
		Debounce: Debounce{
			Slider: Duration{debounce.SliderDuration},
			Search: Duration{debounce.SearchDuration},
			Resize: Duration{debounce.ResizeDuration},
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{DefaultCacheTTL},
		},
	}
}

// LayoutParams converts the layout section to engine parameters.
func (c Config) LayoutParams() layout.Params {
	return layout.Params{
		HorizontalSpacing: c.Layout.HorizontalSpacing,
		VerticalSpacing:   c.Layout.VerticalSpacing,
		NodeSize:          c.Layout.NodeSize,
		Extent:            c.Layout.Extent,
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.LayoutParams().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	if err := errors.ValidateLevel(c.Layout.InitialLevel); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend must be %q, %q or %q (got %q)", BackendFile, BackendRedis, BackendNone, c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
	}
	for name, d := range map[string]Duration{
		"display.duration": c.Display.Duration,
		"debounce.slider":  c.Debounce.Slider,
		"debounce.search":  c.Debounce.Search,
		"debounce.resize":  c.Debounce.Resize,
		"cache.ttl":        c.Cache.TTL,
	} {
		if d.Duration < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s cannot be negative", name)
		}
	}
	return nil
}

// DefaultPath returns the settings file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the settings at path on top of [Default]. A missing file is
// not an error. An empty path means [DefaultPath].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes cfg as TOML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
