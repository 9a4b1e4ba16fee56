// Package pkg provides the core libraries for orgchart, an interactive
// organization chart built from JSON or YAML hierarchies.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Model: [hierarchy] (tree build and collapse state), [filter],
//     [search] and [metrics]
//  2. Geometry: [layout] (tidy tree coordinates) and [reconcile]
//     (enter/update/exit between passes)
//  3. State and output: [session] (one interactive view), [graph] (the
//     serializable frame), [color] and the renderers under [render]
//  4. Plumbing: [pipeline], [cache], [httputil], [io], [config], [watch],
//     [debounce], [observability] and [errors]
//
// # Architecture
//
// The data flow for one render:
//
//	JSON / YAML document
//	         ↓
//	    [io] package (decode)
//	         ↓
//	    [hierarchy] package (tree, collapse state, virtual root)
//	         ↓
//	    [layout] package (x, y per visible node)
//	         ↓
//	    [reconcile] package (what entered, moved and left)
//	         ↓
//	    [graph] Frame → [render] sinks → SVG/PNG/JSON/DOT
//
// [session] runs this flow once per user action and keeps the state between
// actions. [pipeline] runs it once per file, with caching.
//
// # Quick Start
//
//	s := session.New(session.WithLevel(2))
//	frame, err := s.LoadFile("org.json", io.FormatAuto)
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(frame)
//
// [hierarchy]: github.com/matzehuels/orgchart/pkg/hierarchy
// [filter]: github.com/matzehuels/orgchart/pkg/filter
// [search]: github.com/matzehuels/orgchart/pkg/search
// [metrics]: github.com/matzehuels/orgchart/pkg/metrics
// [layout]: github.com/matzehuels/orgchart/pkg/layout
// [reconcile]: github.com/matzehuels/orgchart/pkg/reconcile
// [session]: github.com/matzehuels/orgchart/pkg/session
// [graph]: github.com/matzehuels/orgchart/pkg/graph
// [color]: github.com/matzehuels/orgchart/pkg/color
// [render]: github.com/matzehuels/orgchart/pkg/render
// [pipeline]: github.com/matzehuels/orgchart/pkg/pipeline
// [cache]: github.com/matzehuels/orgchart/pkg/cache
// [httputil]: github.com/matzehuels/orgchart/pkg/httputil
// [io]: github.com/matzehuels/orgchart/pkg/io
// [config]: github.com/matzehuels/orgchart/pkg/config
// [watch]: github.com/matzehuels/orgchart/pkg/watch
// [debounce]: github.com/matzehuels/orgchart/pkg/debounce
// [observability]: github.com/matzehuels/orgchart/pkg/observability
// [errors]: github.com/matzehuels/orgchart/pkg/errors
package pkg
