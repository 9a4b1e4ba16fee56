package hierarchy

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ID is the stable identity of a node within one reconciliation engine.
// The zero value means the node has not been observed yet.
type ID uint64

// String returns the decimal form of the identity.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// State is the collapse state of a node.
type State int

const (
	// Leaf nodes have no children on either side.
	Leaf State = iota
	// Expanded nodes show their children.
	Expanded
	// Collapsed nodes keep their children in the cache.
	Collapsed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Leaf:
		return "leaf"
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// Payload keys with a meaning to the display and derived passes.
const (
	KeyName       = "name"
	KeyTitle      = "title"
	KeyDepartment = "department"
	KeyEmail      = "email"
	KeyLicense    = "licenseFlag"
	KeyChildren   = "children"

	// KeyVirtual marks the synthetic root created for multi-item documents.
	KeyVirtual = "_isVirtualRoot"
)

// Payload holds the named attributes of a node, excluding its children.
type Payload map[string]any

// String returns the scalar value stored at key formatted as a string.
// Missing keys, nulls and nested values yield "".
func (p Payload) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int, int64, uint64, float32:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// Name returns the display name.
func (p Payload) Name() string { return p.String(KeyName) }

// Title returns the job title.
func (p Payload) Title() string { return p.String(KeyTitle) }

// Department returns the department.
func (p Payload) Department() string { return p.String(KeyDepartment) }

// Email returns the email address.
func (p Payload) Email() string { return p.String(KeyEmail) }

// Keys returns the payload keys in sorted order.
func (p Payload) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Node is one entry of the organization tree.
type Node struct {
	// ID is assigned by the reconciliation engine on first observation.
	ID ID

	// Payload holds the node's attributes (name, title, department, ...).
	Payload Payload

	// Children are the visible children in document order.
	Children []*Node

	// cached holds the children while the node is collapsed.
	cached []*Node

	// parent is a lookup-only back-reference.
	parent *Node

	// Depth is the nesting level, 0 for the (possibly virtual) root.
	Depth int

	// Virtual marks the synthetic root of a multi-item document.
	Virtual bool

	// X and Y are the current layout position. X is the sibling axis,
	// Y the depth axis.
	X, Y float64

	// X0 and Y0 are the position at the end of the previous render pass.
	X0, Y0 float64

	// DirectReports is the number of immediate children, visible or cached.
	DirectReports int
}

// Name returns the node's display name.
func (n *Node) Name() string {
	return n.Payload.Name()
}

// Parent returns the parent node or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Cached returns the collapsed-children cache. It is empty unless the node
// is collapsed. The returned slice must not be modified.
func (n *Node) Cached() []*Node {
	return n.cached
}

// AllChildren returns the visible and cached children in a new slice.
// At most one of the two is non-empty.
func (n *Node) AllChildren() []*Node {
	out := make([]*Node, 0, len(n.Children)+len(n.cached))
	out = append(out, n.Children...)
	return append(out, n.cached...)
}

// State reports whether the node is expanded, collapsed or a leaf.
func (n *Node) State() State {
	switch {
	case len(n.Children) > 0:
		return Expanded
	case len(n.cached) > 0:
		return Collapsed
	default:
		return Leaf
	}
}

// IsLeaf reports whether the node has no children on either side.
func (n *Node) IsLeaf() bool { return n.State() == Leaf }

// IsCollapsed reports whether the node's children are cached.
func (n *Node) IsCollapsed() bool { return n.State() == Collapsed }

// IsExpanded reports whether the node's children are visible.
func (n *Node) IsExpanded() bool { return n.State() == Expanded }

// Level returns the depth counted from the top-level people: 0 for a single
// root and for the children of a virtual root.
func (n *Node) Level() int {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	if root.Virtual && n != root {
		return n.Depth - 1
	}
	return n.Depth
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// newNode creates a node with the given payload and attaches children.
func newNode(p Payload, depth int, children []*Node) *Node {
	n := &Node{Payload: p, Depth: depth}
	n.Children = children
	for _, c := range children {
		c.parent = n
	}
	return n
}
