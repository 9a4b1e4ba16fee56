package hierarchy

// Walk visits the visible nodes of the subtree at n in pre-order.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// WalkAll visits every node of the subtree at n in pre-order, including
// nodes hidden in collapsed caches.
func WalkAll(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.AllChildren() {
		WalkAll(c, fn)
	}
}

// PostOrder visits every node of the subtree at n after its children,
// including cached children.
func PostOrder(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	for _, c := range n.AllChildren() {
		PostOrder(c, fn)
	}
	fn(n)
}

// Visible returns the visible nodes of the subtree at n in pre-order.
func Visible(n *Node) []*Node {
	var out []*Node
	Walk(n, func(m *Node) bool {
		out = append(out, m)
		return true
	})
	return out
}

// All returns every node of the subtree at n in pre-order.
func All(n *Node) []*Node {
	var out []*Node
	WalkAll(n, func(m *Node) bool {
		out = append(out, m)
		return true
	})
	return out
}

// Count returns the number of real (non-virtual) nodes in the subtree at n.
func Count(n *Node) int {
	count := 0
	WalkAll(n, func(m *Node) bool {
		if !m.Virtual {
			count++
		}
		return true
	})
	return count
}

// Find returns the node with the given identity, searching cached
// children too. It returns nil when no node matches or id is zero.
func Find(n *Node, id ID) *Node {
	if id == 0 {
		return nil
	}
	var found *Node
	WalkAll(n, func(m *Node) bool {
		if found != nil {
			return false
		}
		if m.ID == id {
			found = m
			return false
		}
		return true
	})
	return found
}

// Ancestors returns the ancestors of n from the root down to its parent.
func Ancestors(n *Node) []*Node {
	var out []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Path returns the display names from the first real ancestor down to n.
// The virtual root is omitted.
func Path(n *Node) []string {
	var out []string
	for _, a := range Ancestors(n) {
		if !a.Virtual {
			out = append(out, a.Name())
		}
	}
	if n != nil && !n.Virtual {
		out = append(out, n.Name())
	}
	return out
}

// Manager returns the nearest real ancestor of n, or nil when n reports to
// nobody (the root, or a top-level item under a virtual root).
func Manager(n *Node) *Node {
	if n == nil {
		return nil
	}
	p := n.Parent()
	if p == nil || p.Virtual {
		return nil
	}
	return p
}
