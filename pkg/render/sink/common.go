package sink

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	orgcolor "github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/graph"
)

// Geometry shared by the SVG and PNG sinks.
const (
	NodeRadius        = 6.0
	Margin            = 40.0
	LabelSpace        = 160.0
	LegendWidth       = 200.0
	legendRow         = 18.0
	legendHeader      = 28.0
	labelOffset       = 10.0
	DefaultLabelWidth = 24
	placeholderMsg    = "No data"
)

// Option configures a sink.
type Option func(*options)

type options struct {
	title      string
	legend     bool
	labelWidth int
	minWidth   int
	minHeight  int
	scale      float64
}

func newOptions(opts []Option) options {
	o := options{legend: true, labelWidth: DefaultLabelWidth, scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTitle sets the document title drawn above the chart.
func WithTitle(t string) Option { return func(o *options) { o.title = t } }

// WithoutLegend omits the color legend.
func WithoutLegend() Option { return func(o *options) { o.legend = false } }

// WithLabelWidth truncates labels to w terminal cells.
func WithLabelWidth(w int) Option {
	return func(o *options) {
		if w > 0 {
			o.labelWidth = w
		}
	}
}

// WithMinSize sets a minimum canvas size in pixels.
func WithMinSize(w, h int) Option {
	return func(o *options) { o.minWidth, o.minHeight = w, h }
}

// WithScale multiplies the PNG resolution. The SVG sink ignores it.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// canvas is the pixel frame of a rendering. Layout coordinates (x, y) are
// drawn at screen (y+tx, x+ty).
type canvas struct {
	width, height int
	tx, ty        float64
	legendX       float64
	legendY       float64
	theme         orgcolor.Theme
}

func measure(f *graph.Frame, o options) canvas {
	c := canvas{theme: orgcolor.ThemeFor(f.Theme == graph.ThemeDark)}

	top := Margin
	if o.title != "" {
		top += 24
	}
	chartW, chartH := 0.0, 0.0
	if !f.IsEmpty() {
		chartW = f.Bounds.Width()
		chartH = f.Bounds.Height()
	}
	c.tx = Margin + LabelSpace/2 - f.Bounds.MinY
	c.ty = top - f.Bounds.MinX

	w := Margin*2 + chartW + LabelSpace
	h := top + chartH + Margin
	if o.legend && len(f.Legend.Items) > 0 {
		c.legendX = w
		c.legendY = top
		w += LegendWidth
		h = math.Max(h, top+legendHeader+legendRow*float64(len(f.Legend.Items))+Margin)
	}
	c.width = max(int(math.Ceil(w)), o.minWidth)
	c.height = max(int(math.Ceil(h)), o.minHeight)
	return c
}

// screen maps a layout position to canvas pixels.
func (c canvas) screen(x, y float64) (float64, float64) {
	return y + c.tx, x + c.ty
}

func truncate(s string, w int) string {
	return runewidth.Truncate(s, w, "…")
}

// rgba parses a hex color, falling back to fallback.
func rgba(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}

// labelRight reports whether a node's label goes right of the node.
// Expanded managers put it on the left so it does not cross their links.
func labelRight(n *graph.Node) bool {
	return n.State != "expanded"
}

func nodeIndex(f *graph.Frame) map[uint64]*graph.Node {
	idx := make(map[uint64]*graph.Node, len(f.Nodes))
	for i := range f.Nodes {
		idx[f.Nodes[i].ID] = &f.Nodes[i]
	}
	return idx
}
