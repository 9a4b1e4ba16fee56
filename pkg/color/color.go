// Package color maps nodes to fill colors according to a color mode.
//
// Four modes are supported:
//
//   - [Department]: one hue per distinct department, sampled evenly from a
//     cyclical rainbow in order of first appearance.
//   - [EmailDomain]: one categorical color per distinct email domain.
//   - [LicenseFlag]: a fixed highlight for nodes whose license field is
//     "true".
//   - [DirectReports]: a sequential blue ramp over the direct-report count,
//     saturating at [ReportsCeiling].
//
// Nodes without a value for the active mode get the theme's default fill.
// A [Scheme] is built once per tree (and rebuilt after reloads and filters)
// and also produces the matching [Legend].
package color

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/metrics"
)

// =============================================================================
// Mode
// =============================================================================

// Mode selects how nodes are colored.
type Mode int

const (
	Department Mode = iota
	EmailDomain
	LicenseFlag
	DirectReports
)

// Modes lists every mode in display order.
var Modes = []Mode{Department, EmailDomain, LicenseFlag, DirectReports}

// String returns the parameter name of the mode.
func (m Mode) String() string {
	switch m {
	case Department:
		return "department"
	case EmailDomain:
		return "emailDomain"
	case LicenseFlag:
		return "licenseFlag"
	case DirectReports:
		return "directReportCount"
	default:
		return "unknown"
	}
}

// Title returns a human-readable legend title.
func (m Mode) Title() string {
	switch m {
	case Department:
		return "Departments"
	case EmailDomain:
		return "Email Domains"
	case LicenseFlag:
		return "License"
	case DirectReports:
		return "Direct Reports"
	default:
		return ""
	}
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	return Modes[(int(m)+1)%len(Modes)]
}

// ParseMode parses a mode name. Matching ignores case and accepts a few
// short aliases ("email", "license", "reports").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "department", "dept", "":
		return Department, nil
	case "emaildomain", "email", "domain":
		return EmailDomain, nil
	case "licenseflag", "license":
		return LicenseFlag, nil
	case "directreportcount", "directreports", "reports":
		return DirectReports, nil
	default:
		return Department, errors.New(errors.ErrCodeInvalidColorMode,
			"unknown color mode %q (want department, emailDomain, licenseFlag or directReportCount)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// =============================================================================
// Theme
// =============================================================================

// Theme holds the non-data colors of a rendering.
type Theme struct {
	Background string
	Fill       string // default node fill
	Stroke     string // node outline
	Text       string
	Link       string
	Highlight  string // search match outline
}

// Light and Dark are the two built-in themes.
var (
	Light = Theme{
		Background: "#ffffff",
		Fill:       "#ffffff",
		Stroke:     "#4682b4",
		Text:       "#333333",
		Link:       "#cccccc",
		Highlight:  "#ff9800",
	}
	Dark = Theme{
		Background: "#1e1e1e",
		Fill:       "#333333",
		Stroke:     "#6fa8dc",
		Text:       "#e0e0e0",
		Link:       "#555555",
		Highlight:  "#ffb74d",
	}
)

// ThemeFor returns Dark when dark is set and Light otherwise.
func ThemeFor(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}

// LicenseColor is the fill of nodes with a set license flag.
const LicenseColor = "#ff4444"

// ReportsCeiling is the direct-report count at which the blue ramp
// saturates.
const ReportsCeiling = 20

// =============================================================================
// Scheme
// =============================================================================

// Options tune a Scheme.
type Options struct {
	Dark bool

	// LicenseField is the payload key read in LicenseFlag mode.
	// Defaults to hierarchy.KeyLicense.
	LicenseField string
}

// Scheme assigns colors for one mode over one tree.
type Scheme struct {
	mode    Mode
	theme   Theme
	license string

	keys   []string          // distinct category values in discovery order
	colors map[string]string // category value -> hex
}

// NewScheme builds a scheme for the tree at root. Categories are collected
// from every node, including collapsed subtrees, so colors stay stable while
// the user expands and collapses.
func NewScheme(mode Mode, root *hierarchy.Node, opts Options) *Scheme {
	s := &Scheme{
		mode:    mode,
		theme:   ThemeFor(opts.Dark),
		license: opts.LicenseField,
		colors:  map[string]string{},
	}
	if s.license == "" {
		s.license = hierarchy.KeyLicense
	}

	switch mode {
	case Department:
		s.collect(root, func(n *hierarchy.Node) string { return n.Payload.Department() })
		for i, k := range s.keys {
			s.colors[k] = Rainbow(float64(i) / float64(len(s.keys)))
		}
	case EmailDomain:
		s.collect(root, func(n *hierarchy.Node) string { return metrics.EmailDomain(n.Payload.Email()) })
		for i, k := range s.keys {
			s.colors[k] = Category10[i%len(Category10)]
		}
	case LicenseFlag, DirectReports:
	}
	return s
}

func (s *Scheme) collect(root *hierarchy.Node, key func(*hierarchy.Node) string) {
	hierarchy.WalkAll(root, func(n *hierarchy.Node) bool {
		if n.Virtual {
			return true
		}
		if k := key(n); k != "" {
			if _, ok := s.colors[k]; !ok {
				s.colors[k] = ""
				s.keys = append(s.keys, k)
			}
		}
		return true
	})
}

// Mode returns the scheme's mode.
func (s *Scheme) Mode() Mode { return s.mode }

// Theme returns the scheme's theme.
func (s *Scheme) Theme() Theme { return s.theme }

// Fill returns the hex fill color of n.
func (s *Scheme) Fill(n *hierarchy.Node) string {
	switch s.mode {
	case Department:
		return s.category(n.Payload.Department())
	case EmailDomain:
		return s.category(metrics.EmailDomain(n.Payload.Email()))
	case LicenseFlag:
		if strings.EqualFold(n.Payload.String(s.license), "true") {
			return LicenseColor
		}
		return s.theme.Fill
	case DirectReports:
		if n.DirectReports <= 0 {
			return s.theme.Fill
		}
		return Blues(float64(min(n.DirectReports, ReportsCeiling)) / ReportsCeiling)
	default:
		return s.theme.Fill
	}
}

func (s *Scheme) category(k string) string {
	if c, ok := s.colors[k]; ok && c != "" {
		return c
	}
	return s.theme.Fill
}

// =============================================================================
// Legend
// =============================================================================

// LegendItem is one swatch of a legend.
type LegendItem struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// Legend describes the active color mapping.
type Legend struct {
	Title string       `json:"title"`
	Items []LegendItem `json:"items,omitempty"`

	// Gradient is set for continuous scales. Items then hold the gradient
	// stops, and Items[0] and Items[len-1] carry the end labels.
	Gradient bool `json:"gradient,omitempty"`
}

// Legend returns the legend for the scheme.
func (s *Scheme) Legend() Legend {
	l := Legend{Title: s.mode.Title()}
	switch s.mode {
	case Department, EmailDomain:
		for _, k := range s.keys {
			l.Items = append(l.Items, LegendItem{Color: s.colors[k], Label: k})
		}
	case LicenseFlag:
		l.Items = []LegendItem{
			{Color: LicenseColor, Label: "Has License"},
			{Color: s.theme.Fill, Label: "No License"},
		}
	case DirectReports:
		l.Gradient = true
		const stops = 5
		for i := 0; i < stops; i++ {
			item := LegendItem{Color: Blues(float64(i) / (stops - 1))}
			switch i {
			case 0:
				item.Label = "0"
			case stops - 1:
				item.Label = "10+"
			}
			l.Items = append(l.Items, item)
		}
	}
	return l
}

// =============================================================================
// Scales
// =============================================================================

// Category10 is the ten-color categorical palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// bluesStops is the nine-class sequential blue ramp.
var bluesStops = []string{
	"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
	"#4292c6", "#2171b5", "#08519c", "#08306b",
}

// Blues returns the blue ramp at t in [0, 1].
func Blues(t float64) string {
	t = clamp01(t)
	seg := t * float64(len(bluesStops)-1)
	i := int(math.Floor(seg))
	if i >= len(bluesStops)-1 {
		return bluesStops[len(bluesStops)-1]
	}
	a, _ := colorful.Hex(bluesStops[i])
	b, _ := colorful.Hex(bluesStops[i+1])
	return a.BlendRgb(b, seg-float64(i)).Clamped().Hex()
}

// Rainbow returns the cyclical cubehelix rainbow at t. Rainbow(0) and
// Rainbow(1) are the same color.
func Rainbow(t float64) string {
	t -= math.Floor(t)
	ts := math.Abs(t - 0.5)
	return cubehelix(360*t-100, 1.5-1.5*ts, 0.8-0.9*ts).Clamped().Hex()
}

// cubehelix converts a cubehelix color (h in degrees) to RGB.
func cubehelix(h, s, l float64) colorful.Color {
	const (
		a = -0.14861
		b = 1.78277
		c = -0.29227
		d = -0.90649
		e = 1.97294
	)
	rad := (h + 120) * math.Pi / 180
	amp := s * l * (1 - l)
	cosh, sinh := math.Cos(rad), math.Sin(rad)
	return colorful.Color{
		R: l + amp*(a*cosh+b*sinh),
		G: l + amp*(c*cosh+d*sinh),
		B: l + amp*(e*cosh),
	}
}

func clamp01(t float64) float64 {
	switch {
	case math.IsNaN(t), t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
