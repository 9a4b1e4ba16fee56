// Package pipeline provides the batch visualization pipeline for orgchart.
//
// The pipeline turns an organization document into rendered artifacts. The
// CLI commands `parse`, `layout`, `render` and `watch` all go through it,
// so every entry point decodes, lays out and caches the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the document from a file, stdin or a URL and decode it
//  2. Frame: build a [session.Session], apply filter, level and search, and
//     take the resulting [graph.Frame]
//  3. Render: draw the frame in each requested format (SVG, PNG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// Frames and artifacts are cached by content hash, so re-rendering an
// unchanged document with unchanged options is a cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "org.json",
//	    Level:   2,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
	orgio "github.com/matzehuels/orgchart/pkg/io"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/session"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI commands
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = graph.VizTypeTree

	// DefaultWidth and DefaultHeight are the minimum PNG canvas size.
	DefaultWidth  = 800
	DefaultHeight = 600

	// StdinInput reads the document from standard input.
	StdinInput = "-"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats lists the supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes lists the supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeTree:     true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Types
// =============================================================================

// Options configures a pipeline run. Zero values take the defaults above
// and those of [layout.Params].
type Options struct {
	// Load options
	Input  string       `json:"input,omitempty"` // path, http(s) URL or "-"
	Data   []byte       `json:"-"`               // document bytes; overrides Input
	Format orgio.Format `json:"format,omitempty"`

	// Frame options
	Level             int      `json:"level"`
	HorizontalSpacing float64  `json:"horizontal_spacing,omitempty"`
	VerticalSpacing   float64  `json:"vertical_spacing,omitempty"`
	NodeSize          float64  `json:"node_size,omitempty"`
	Extent            float64  `json:"extent,omitempty"`
	ColorMode         string   `json:"color_mode,omitempty"`
	LicenseField      string   `json:"license_field,omitempty"`
	DarkMode          bool     `json:"dark_mode,omitempty"`
	Filter            string   `json:"filter,omitempty"`
	Query             string   `json:"query,omitempty"`
	SearchFields      []string `json:"search_fields,omitempty"`
	Reveal            bool     `json:"reveal,omitempty"` // expand managers of hidden matches

	// Render options
	VizType  string   `json:"viz_type,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Title    string   `json:"title,omitempty"`
	NoLegend bool     `json:"no_legend,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // nodelink labels with title and reports

	// Runtime options (not serialized)
	Refresh bool        `json:"-"`
	Stdin   io.Reader   `json:"-"`
	Logger  *log.Logger `json:"-"`

	mode      color.Mode
	criteria  session.Criteria
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Session is the session that produced Frame. It is nil when the frame
	// came from the cache.
	Session *session.Session

	// DocumentHash is the content hash of the input document.
	DocumentHash string

	// Frame is the rendered state.
	Frame *graph.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings lists document shape problems found while building the tree.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LinkCount  int
	LoadTime   time.Duration
	FrameTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // remote document came from cache
	FrameHit  bool // frame came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: tree, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every stage's options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLoadDefaults sets default values for loading.
func (o *Options) SetLoadDefaults() {
	if o.Format == "" {
		o.Format = orgio.FormatAuto
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForLoad checks that there is something to load.
func (o *Options) ValidateForLoad() error {
	o.SetLoadDefaults()
	if o.Data != nil || o.Input == StdinInput {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required (path, URL or \"-\")")
	}
	if strings.Contains(o.Input, "://") {
		return errors.ValidateURL(o.Input)
	}
	return errors.ValidatePath(o.Input)
}

// SetLayoutDefaults sets default values for frame computation.
func (o *Options) SetLayoutDefaults() {
	p := o.LayoutParams()
	p.SetDefaults()
	o.HorizontalSpacing = p.HorizontalSpacing
	o.VerticalSpacing = p.VerticalSpacing
	o.NodeSize = p.NodeSize
	if o.ColorMode == "" {
		o.ColorMode = color.Department.String()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForLayout validates and sets defaults for frame computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.LayoutParams().Validate(); err != nil {
		return err
	}
	if err := errors.ValidateLevel(o.Level); err != nil {
		return err
	}
	mode, err := color.ParseMode(o.ColorMode)
	if err != nil {
		return err
	}
	o.mode = mode
	o.ColorMode = mode.String()

	c, err := session.ParseCriteria(o.Filter)
	if err != nil {
		return err
	}
	o.criteria = c
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "canvas size cannot be negative (got %dx%d)", o.Width, o.Height)
	}
	return nil
}

// IsNodelink returns true if this is a Graphviz node-link visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// LayoutParams returns the layout parameters of o.
func (o *Options) LayoutParams() layout.Params {
	return layout.Params{
		HorizontalSpacing: o.HorizontalSpacing,
		VerticalSpacing:   o.VerticalSpacing,
		NodeSize:          o.NodeSize,
		Extent:            o.Extent,
	}
}

// SessionOptions returns the options of the session that computes the frame.
func (o *Options) SessionOptions() []session.Option {
	opts := []session.Option{
		session.WithLogger(o.Logger),
		session.WithParams(o.LayoutParams()),
		session.WithLevel(o.Level),
		session.WithColorMode(o.mode),
		session.WithDarkMode(o.DarkMode),
	}
	if o.LicenseField != "" {
		opts = append(opts, session.WithLicenseField(o.LicenseField))
	}
	if len(o.SearchFields) > 0 {
		opts = append(opts, session.WithSearchFields(o.SearchFields...))
	}
	return opts
}

// FrameKeyOpts returns cache key options for frame computation.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Level:             o.Level,
		HorizontalSpacing: o.HorizontalSpacing,
		VerticalSpacing:   o.VerticalSpacing,
		NodeSize:          o.NodeSize,
		Extent:            o.Extent,
		ColorMode:         o.ColorMode,
		LicenseField:      o.LicenseField,
		Dark:              o.DarkMode,
		Filter:            o.criteria.String(),
		Query:             o.Query,
		SearchFields:      o.SearchFields,
		Reveal:            o.Reveal,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		VizType:  o.VizType,
		Format:   format,
		Dark:     o.DarkMode,
		Title:    o.Title,
		NoLegend: o.NoLegend,
		Detailed: o.Detailed,
	}
	if format == FormatPNG && !o.IsNodelink() {
		opts.Width, opts.Height = o.Width, o.Height
	}
	return opts
}
