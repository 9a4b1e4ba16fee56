package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/config"
	orgio "github.com/matzehuels/orgchart/pkg/io"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// viewFlags are the document and view flags shared by the commands that
// build a frame. Settings from the config file apply unless a flag is set
// explicitly.
type viewFlags struct {
	format       string
	level        int
	hSpacing     float64
	vSpacing     float64
	nodeSize     float64
	extent       float64
	colorMode    string
	dark         bool
	licenseField string
	filter       string
	query        string
	searchFields []string
	reveal       bool
}

// register binds the flags to cmd. Defaults shown in help are the
// built-in settings.
func (f *viewFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&f.format, "input-format", "auto", "document format: auto, json, yaml")
	fs.IntVarP(&f.level, "level", "l", d.Layout.InitialLevel, "initial expansion depth (0 shows only the root)")
	fs.Float64Var(&f.hSpacing, "horizontal-spacing", d.Layout.HorizontalSpacing, "distance between depth levels")
	fs.Float64Var(&f.vSpacing, "vertical-spacing", d.Layout.VerticalSpacing, "sibling spacing multiplier")
	fs.Float64Var(&f.nodeSize, "node-size", d.Layout.NodeSize, "base sibling distance")
	fs.Float64Var(&f.extent, "extent", d.Layout.Extent, "fixed sibling-axis extent (0 = grow with the tree)")
	fs.StringVarP(&f.colorMode, "color", "c", d.Display.ColorMode.String(), "color mode: department, emailDomain, licenseFlag, directReportCount")
	fs.BoolVar(&f.dark, "dark", d.Display.DarkMode, "use the dark theme")
	fs.StringVar(&f.licenseField, "license-field", d.Display.LicenseField, "payload field that flags a license (licenseFlag mode)")
	fs.StringVar(&f.filter, "filter", "", `keep matching people and their managers ("eng" or "department=eng,title=lead")`)
	fs.StringVarP(&f.query, "search", "s", "", "highlight people matching this query")
	fs.StringSliceVar(&f.searchFields, "search-fields", d.Search.Fields, "payload fields the search looks at")
	fs.BoolVar(&f.reveal, "reveal", false, "expand managers of search matches hidden in collapsed subtrees")
	registerViewCompletions(cmd)
}

// viewOptions merges the settings file and the flags set on cmd.
func (c *CLI) viewOptions(cmd *cobra.Command, f *viewFlags) (pipeline.Options, error) {
	opts := c.baseOptions()
	format, err := orgio.ParseFormat(f.format)
	if err != nil {
		return opts, err
	}
	opts.Format = format

	fs := cmd.Flags()
	if fs.Changed("level") {
		opts.Level = f.level
	}
	if fs.Changed("horizontal-spacing") {
		opts.HorizontalSpacing = f.hSpacing
	}
	if fs.Changed("vertical-spacing") {
		opts.VerticalSpacing = f.vSpacing
	}
	if fs.Changed("node-size") {
		opts.NodeSize = f.nodeSize
	}
	if fs.Changed("extent") {
		opts.Extent = f.extent
	}
	if fs.Changed("color") {
		opts.ColorMode = f.colorMode
	}
	if fs.Changed("dark") {
		opts.DarkMode = f.dark
	}
	if fs.Changed("license-field") {
		opts.LicenseField = f.licenseField
	}
	if fs.Changed("search-fields") {
		opts.SearchFields = f.searchFields
	}
	opts.Filter = f.filter
	opts.Query = f.query
	opts.Reveal = f.reveal
	opts.Logger = c.Logger
	return opts, nil
}

// renderFlags are the output flags of the commands that draw artifacts.
type renderFlags struct {
	output   string
	formats  string
	vizType  string
	width    int
	height   int
	title    string
	noLegend bool
	detailed bool
	noCache  bool
	refresh  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	fs.StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: tree, nodelink")
	fs.IntVar(&f.width, "width", pipeline.DefaultWidth, "minimum PNG width")
	fs.IntVar(&f.height, "height", pipeline.DefaultHeight, "minimum PNG height")
	fs.StringVar(&f.title, "title", "", "chart title")
	fs.BoolVar(&f.noLegend, "no-legend", false, "omit the color legend")
	fs.BoolVar(&f.detailed, "detailed", false, "show title and report count in node-link labels")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	registerRenderCompletions(cmd)
}

// apply copies the render flags onto opts and validates the formats.
func (f *renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	opts.VizType = f.vizType
	opts.Width = f.width
	opts.Height = f.height
	opts.Title = f.title
	opts.NoLegend = f.noLegend
	opts.Detailed = f.detailed
	opts.Refresh = f.refresh
	return nil
}
