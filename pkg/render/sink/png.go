package sink

import (
	"bytes"
	"image/color"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
)

// RenderPNG rasterizes the end state of a frame. Links are drawn as the
// same cubic curves the SVG sink uses.
func RenderPNG(f *graph.Frame, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	c := measure(f, o)
	th := c.theme

	dc := gg.NewContext(int(float64(c.width)*o.scale), int(float64(c.height)*o.scale))
	dc.Scale(o.scale, o.scale)
	dc.SetColor(rgba(th.Background, color.White))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	text := rgba(th.Text, color.Black)
	if o.title != "" {
		dc.SetColor(text)
		dc.DrawStringAnchored(o.title, Margin, Margin, 0, 0)
	}

	if f.IsEmpty() {
		dc.SetColor(text)
		dc.DrawStringAnchored(placeholderMsg, float64(c.width)/2, float64(c.height)/2, 0.5, 0.5)
		return encode(dc)
	}

	idx := nodeIndex(f)
	dc.SetColor(rgba(th.Link, color.Gray{Y: 0xcc}))
	dc.SetLineWidth(1.5)
	for _, l := range f.Links {
		p, ok1 := idx[l.Source]
		n, ok2 := idx[l.Target]
		if !ok1 || !ok2 {
			continue
		}
		sx, sy := c.screen(p.X, p.Y)
		dx, dy := c.screen(n.X, n.Y)
		mx := (sx + dx) / 2
		dc.NewSubPath()
		dc.MoveTo(sx, sy)
		dc.CubicTo(mx, sy, mx, dy, dx, dy)
		dc.Stroke()
	}

	for i := range f.Nodes {
		drawNodePNG(dc, &f.Nodes[i], o, c, text)
	}
	if o.legend {
		drawLegendPNG(dc, f, c, text)
	}
	return encode(dc)
}

func drawNodePNG(dc *gg.Context, n *graph.Node, o options, c canvas, text color.Color) {
	th := c.theme
	x, y := c.screen(n.X, n.Y)

	dc.DrawCircle(x, y, NodeRadius)
	dc.SetColor(rgba(n.Color, color.White))
	dc.FillPreserve()
	stroke, width := th.Stroke, 1.5
	if n.Collapsed() {
		width = 2.5
	}
	if n.Match {
		stroke, width = th.Highlight, 3
	}
	dc.SetColor(rgba(stroke, color.Black))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.SetColor(text)
	ax, lx := 0.0, x+labelOffset
	if !labelRight(n) {
		ax, lx = 1, x-labelOffset
	}
	dc.DrawStringAnchored(truncate(n.Name, o.labelWidth), lx, y, ax, 0.5)
	if n.Title != "" {
		dc.DrawStringAnchored(truncate(n.Title, o.labelWidth), lx, y+13, ax, 0.5)
	}
}

func drawLegendPNG(dc *gg.Context, f *graph.Frame, c canvas, text color.Color) {
	l := f.Legend
	if len(l.Items) == 0 {
		return
	}
	x, y := c.legendX, c.legendY
	dc.SetColor(text)
	dc.DrawStringAnchored(l.Title, x, y, 0, 0)
	for i, it := range l.Items {
		ry := y + legendHeader/2 + float64(i)*legendRow
		dc.DrawRectangle(x, ry, 14, 14)
		dc.SetColor(rgba(it.Color, color.White))
		dc.Fill()
		if l.Gradient && i != 0 && i != len(l.Items)-1 {
			continue
		}
		dc.SetColor(text)
		dc.DrawStringAnchored(truncate(it.Label, 24), x+20, ry+7, 0, 0.5)
	}
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
