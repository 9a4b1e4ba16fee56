// Package render groups the renderers that draw a [graph.Frame].
//
// # Overview
//
// A frame is a complete, positioned snapshot of the visible chart. The
// subpackages turn it into files:
//
//   - [sink] draws the tidy tree itself as SVG (svgo) or PNG (gg), and
//     writes the frame as JSON
//   - [nodelink] hands the same people and reporting lines to Graphviz,
//     which computes its own left-to-right placement
//
// # Tree Sinks
//
// Sinks draw the end state of a frame: links as horizontal diagonals from
// manager to report, people as circles filled with their color, names to
// the right of leaves and collapsed managers and to the left of expanded
// ones, and the color legend in the top right corner.
//
//	svg := sink.RenderSVG(frame, sink.WithTitle("Acme"))
//	png, err := sink.RenderPNG(frame, sink.WithMinSize(1600, 1200))
//
// # Node-Link Diagrams
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [graph.Frame]: github.com/matzehuels/orgchart/pkg/graph.Frame
// [sink]: github.com/matzehuels/orgchart/pkg/render/sink
// [nodelink]: github.com/matzehuels/orgchart/pkg/render/nodelink
package render
