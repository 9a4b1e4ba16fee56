// Package session holds the state of one interactive organization chart.
//
// A [Session] owns the original document, the tree derived from it and the
// view parameters (layout spacing, expansion level, color mode, theme,
// search query, filter). Every action mutates that state and runs one
// render pass:
//
//	layout.Engine.Assign -> reconcile.Engine.Diff -> graph.FromDiff
//
// and returns the resulting [graph.Frame]. The frame lists what entered,
// moved and left since the previous action, so a renderer can animate the
// change.
//
// # Usage
//
//	s := session.New(session.WithLogger(logger), session.WithLevel(2))
//	frame, err := s.LoadFile("org.json", "")
//	frame, err = s.Toggle(hierarchy.ID(frame.Nodes[1].ID))
//	frame, err = s.SetParameter(session.ParamColorMode, "emailDomain")
//
// # Loading
//
// Load and Reload replace the document as a whole. All fallible work
// (decoding, building, filtering) happens before anything is swapped, so a
// document that fails to parse leaves the previous view intact. Reloaded
// and filtered trees get fresh node identities.
//
// # Exits
//
// Nodes that leave the view stay pending until the renderer calls
// [Session.Complete] with their IDs, or [Session.Flush] when it does not
// animate. A node that comes back before completing re-enters as an update.
//
// A Session is not safe for concurrent use.
//
// [graph.Frame]: github.com/matzehuels/orgchart/pkg/graph.Frame
package session
