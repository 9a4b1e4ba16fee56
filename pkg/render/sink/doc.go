// Package sink turns a [graph.Frame] into output files.
//
//   - [RenderSVG]: static SVG via svgo. Links are the frame's diagonal
//     paths; nodes are circles filled by the active color mode, with the
//     name and title beside them. Search matches get the theme's
//     highlight outline, collapsed managers a thicker stroke.
//   - [RenderPNG]: the same picture rasterized with gg.
//   - [RenderJSON]: the frame itself.
//
// The chart reads left to right: the layout's depth axis (Y) becomes the
// horizontal screen axis. A legend for the color mode is drawn on the
// right unless [WithoutLegend] is given. An empty frame renders a "No
// data" placeholder rather than failing.
//
//	svg := sink.RenderSVG(frame, sink.WithTitle("Acme Corp"))
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//
// [graph.Frame]: github.com/matzehuels/orgchart/pkg/graph.Frame
package sink
