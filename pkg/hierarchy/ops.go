package hierarchy

// Collapse moves the visible children of n into its cache.
// It reports false and does nothing when n has no visible children.
func Collapse(n *Node) bool {
	if n == nil || len(n.Children) == 0 {
		return false
	}
	n.cached = n.Children
	n.Children = nil
	return true
}

// Expand moves the cached children of n back into its visible children.
// It reports false and does nothing when the cache is empty.
func Expand(n *Node) bool {
	if n == nil || len(n.cached) == 0 {
		return false
	}
	n.Children = n.cached
	n.cached = nil
	return true
}

// Toggle collapses an expanded node or expands a collapsed one.
// Leaves are left untouched and Toggle reports false.
func Toggle(n *Node) bool {
	if Collapse(n) {
		return true
	}
	return Expand(n)
}

// ExpandToLevel expands every node of the subtree at n whose depth is below
// level and collapses every node at or below it. Depth counts from the
// tree root (virtual or not) at 0.
func ExpandToLevel(n *Node, level int) {
	if n == nil {
		return
	}
	children := n.AllChildren()
	if n.Depth < level {
		Expand(n)
	} else {
		Collapse(n)
	}
	for _, c := range children {
		ExpandToLevel(c, level)
	}
}

// ExpandAll expands n and every descendant.
func ExpandAll(n *Node) {
	if n == nil {
		return
	}
	Expand(n)
	for _, c := range n.Children {
		ExpandAll(c)
	}
}

// CollapseAll collapses every descendant of n. The node itself is left
// expanded so its immediate children stay visible.
func CollapseAll(n *Node) {
	if n == nil {
		return
	}
	Expand(n)
	for _, c := range n.Children {
		collapseDeep(c)
	}
}

func collapseDeep(n *Node) {
	for _, c := range n.AllChildren() {
		collapseDeep(c)
	}
	Collapse(n)
}
