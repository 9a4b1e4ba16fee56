package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	orgcolor "github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds title, department and report count to node labels.
	// When false, only the name is shown.
	Detailed bool
}

// ToDOT converts a frame to Graphviz DOT source. Graphviz computes its own
// placement; the frame contributes the visible people, their colors, the
// reporting lines and the search highlight.
//
// Collapsed managers are drawn with a double outline.
func ToDOT(f *graph.Frame, opts Options) string {
	theme := orgcolor.ThemeFor(f.Theme == graph.ThemeDark)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", theme.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", color=%q, fontcolor=%q, fontname=\"Helvetica\", fontsize=12, margin=\"0.15,0.08\"];\n",
		theme.Stroke, theme.Text)
	fmt.Fprintf(&buf, "  edge [color=%q, arrowhead=none];\n", theme.Link)
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), theme)
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range f.Links {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", l.Source, l.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	lines := []string{n.Name}
	if n.Title != "" {
		lines = append(lines, n.Title)
	}
	if n.Department != "" {
		lines = append(lines, n.Department)
	}
	if n.Reports > 0 {
		lines = append(lines, "reports: "+strconv.Itoa(n.Reports))
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(n graph.Node, label string, theme orgcolor.Theme) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", n.Color),
	}
	if n.Collapsed() {
		attrs = append(attrs, "peripheries=2")
	}
	if n.Match {
		attrs = append(attrs, fmt.Sprintf("color=%q", theme.Highlight), "penwidth=3")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// whose width and height match the view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
