package sink

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/orgchart/pkg/graph"
)

// RenderSVG draws the end state of a frame as a static SVG document.
func RenderSVG(f *graph.Frame, opts ...Option) []byte {
	var buf bytes.Buffer
	WriteSVG(&buf, f, opts...)
	return buf.Bytes()
}

// WriteSVG is RenderSVG writing to w.
func WriteSVG(w io.Writer, f *graph.Frame, opts ...Option) {
	o := newOptions(opts)
	c := measure(f, o)
	th := c.theme

	canvas := svg.New(w)
	canvas.Start(c.width, c.height)
	if o.title != "" {
		canvas.Title(o.title)
	}
	canvas.Rect(0, 0, c.width, c.height, "fill:"+th.Background)
	if o.title != "" {
		canvas.Text(int(Margin), int(Margin), o.title,
			fmt.Sprintf("fill:%s;font-size:16px;font-family:sans-serif;font-weight:bold", th.Text))
	}

	if f.IsEmpty() {
		canvas.Text(c.width/2, c.height/2, placeholderMsg,
			fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif;text-anchor:middle", th.Text))
		canvas.End()
		return
	}

	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", num(c.tx), num(c.ty)))
	canvas.Gid("links")
	for _, l := range f.Links {
		if l.Path == "" {
			continue
		}
		canvas.Path(l.Path, `class="link"`, fmt.Sprintf(`data-id="%d"`, l.ID),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", th.Link))
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for i := range f.Nodes {
		drawNodeSVG(canvas, &f.Nodes[i], o, c)
	}
	canvas.Gend()
	canvas.Gend()

	if o.legend {
		drawLegendSVG(canvas, f, c)
	}
	canvas.End()
}

func drawNodeSVG(canvas *svg.SVG, n *graph.Node, o options, c canvas) {
	th := c.theme
	x, y := int(math.Round(n.Y)), int(math.Round(n.X))

	stroke, width := th.Stroke, 1.5
	if n.Collapsed() {
		width = 2.5
	}
	if n.Match {
		stroke, width = th.Highlight, 3
	}
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", x, y))
	canvas.Circle(0, 0, int(NodeRadius), `class="node"`, fmt.Sprintf(`data-id="%d"`, n.ID),
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", n.Color, stroke, num(width)))

	anchor, dx := "start", int(labelOffset)
	if !labelRight(n) {
		anchor, dx = "end", -int(labelOffset)
	}
	weight := "normal"
	if n.Match {
		weight = "bold"
	}
	canvas.Text(dx, 4, truncate(n.Name, o.labelWidth),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif;text-anchor:%s;font-weight:%s", th.Text, anchor, weight))
	if n.Title != "" {
		canvas.Text(dx, 17, truncate(n.Title, o.labelWidth),
			fmt.Sprintf("fill:%s;fill-opacity:0.7;font-size:10px;font-family:sans-serif;text-anchor:%s", th.Text, anchor))
	}
	canvas.Gend()
}

func drawLegendSVG(canvas *svg.SVG, f *graph.Frame, c canvas) {
	l := f.Legend
	if len(l.Items) == 0 {
		return
	}
	th := c.theme
	x, y := int(c.legendX), int(c.legendY)
	canvas.Gid("legend")
	canvas.Text(x, y, l.Title, fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif;font-weight:bold", th.Text))
	for i, it := range l.Items {
		ry := y + int(legendHeader/2) + i*int(legendRow)
		canvas.Rect(x, ry, 14, 14, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:0.5", it.Color, th.Stroke))
		label := it.Label
		if l.Gradient && i != 0 && i != len(l.Items)-1 {
			label = ""
		}
		if label != "" {
			canvas.Text(x+20, ry+11, truncate(label, 24), fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif", th.Text))
		}
	}
	canvas.Gend()
}

func num(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}
