// Package graph defines the wire format of laid-out organization charts.
//
// A [Frame] is one render pass turned into plain data: every visible person
// with start and end coordinates, parent-child links as SVG path data, the
// enter/update/exit partition of the pass, and the color legend. Sinks in
// pkg/render draw frames; `orgchart layout` writes them; the pipeline
// caches them.
//
// # Building Frames
//
// [FromDiff] converts a [reconcile.Diff] plus the pass context (document id,
// layout parameters, color scheme, search matches):
//
//	nodes := layout.Engine{}.Assign(tree.Root, params)
//	diff := engine.Diff(nodes, source)
//	frame := graph.FromDiff(diff, graph.Options{Params: params, Scheme: scheme})
//
// # Coordinates
//
// X is the sibling axis and Y the depth axis, as computed by pkg/layout.
// Renderers draw the chart left to right, so they map Y to the horizontal
// screen axis. X0/Y0 hold the position at the start of the pass; for
// entering nodes that is the collapsed origin at the triggering node.
//
// # Serialization
//
// Frames are JSON:
//
//	{
//	  "id": "5d1c...",
//	  "params": {"horizontal_spacing": 180, "vertical_spacing": 1, "node_size": 40},
//	  "color_mode": "department",
//	  "theme": "light",
//	  "nodes": [{"id": 1, "name": "Ada", "x": 0, "y": 0, ...}],
//	  "links": [{"id": 2, "source": 1, "target": 2, "path": "M0 0C..."}],
//	  "enter": [1, 2], "update": [], "exit": [],
//	  "legend": {"title": "Department", "items": [...]}
//	}
//
// [ReadFrame] validates node and link references on the way in and reports
// INVALID_DOCUMENT for inconsistent frames.
//
// [reconcile.Diff]: github.com/matzehuels/orgchart/pkg/reconcile.Diff
package graph
