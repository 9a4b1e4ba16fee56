// Package reconcile computes keyed, diff-based transitions between successive
// layouts of a hierarchy.
//
// # Overview
//
// Every render pass hands the engine the visible node set produced by
// [layout.Engine.Assign] together with the source node that triggered the
// pass (the toggled node, or the root on a full redraw). The engine compares
// the set against the previous pass by node identity and partitions it:
//
//   - Enter: nodes not present in the previous pass. They start at the
//     source's previous position and move to their own position.
//   - Update: nodes present in both passes. They move from their previous
//     position (X0, Y0) to their current one (X, Y).
//   - Exit: nodes present in the previous pass but not now. They move toward
//     the source's current position and stay pending until the renderer
//     reports completion.
//
// Links are keyed by the identity of their child node and follow the same
// partition. Links whose parent is a virtual root are never produced.
//
// # Identity
//
// Identities are assigned on first observation from a counter owned by the
// engine. They are never reassigned while the node object exists, so a node
// that is collapsed away and later re-expanded keeps its identity. The
// counter keeps running across [Engine.Reset], so reloaded or filtered trees
// never collide with identities still held by a renderer.
//
// # Restartable passes
//
// A pass may start before the exit transitions of the previous one have
// completed. Pending exits are carried over and re-targeted at the new
// source; an identity that reappears is reported as an update instead.
// [Engine.Complete] and [Engine.Flush] discard pending exits.
//
// # Positions
//
// After every pass the engine copies X, Y into X0, Y0 for the current set,
// so the next pass interpolates from where this one ended.
package reconcile
