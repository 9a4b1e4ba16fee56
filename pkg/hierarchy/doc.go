// Package hierarchy provides the in-memory organization tree and its
// collapse state.
//
// # Overview
//
// A document (a decoded JSON or YAML value) is turned into a tree of [Node]
// values by [Build]. Each node owns two child slices that are never both
// populated: the visible children and the collapsed-children cache. Collapsing
// a node moves its children into the cache; expanding moves them back. The
// slice itself is moved, so a collapse followed by an expand restores the
// exact same child pointers in the same order.
//
// # Virtual Root
//
// When a document is an array of two or more objects, [Build] wraps them in a
// synthetic node flagged with [Node.Virtual]. The virtual root sits at depth 0
// for collapse-state purposes (so [ExpandToLevel] counts levels from it) but
// layout and rendering treat it as depth -1 and never draw it or its links.
// A single-element array promotes its element to the root.
//
// # Identity
//
// [Node.ID] is zero until the node is first observed by a reconciliation
// engine, which then assigns a value that stays fixed for the life of the
// node. Collapse and expand keep node objects, so identities survive them.
// Rebuilding a tree (reload, filter) creates new nodes with new identities.
//
// # Operations
//
//	tree, err := hierarchy.Build(doc)
//	if err != nil {
//	    return err
//	}
//	hierarchy.ExpandToLevel(tree.Root, 1) // default view: root plus one level
//	hierarchy.Toggle(node)
//	hierarchy.CollapseAll(tree.Root)      // root stays open
//
// All operations are total: calling them on a node that cannot change is a
// no-op that reports false.
package hierarchy
