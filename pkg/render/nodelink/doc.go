// Package nodelink renders organization charts as Graphviz node-link
// diagrams.
//
// This is the alternative to the tree sinks in pkg/render/sink: instead of
// the tidy layout's coordinates, Graphviz places the visible people itself
// (left to right, one rank per management level), drawn as rounded boxes
// filled with the active color mode.
//
// # Usage
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// [ToDOT] output can also be saved and processed with external Graphviz
// tools (`orgchart render --format dot`).
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz
// compiled to WebAssembly, so no system installation is needed.
package nodelink
