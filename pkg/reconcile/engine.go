package reconcile

import (
	"slices"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// =============================================================================
// Types
// =============================================================================

// Transition moves one node from one position to another.
type Transition struct {
	Node *hierarchy.Node
	From Point
	To   Point
}

// At returns the eased position at progress t in [0, 1].
func (t Transition) At(progress float64) Point {
	return Lerp(t.From, t.To, EaseCubicInOut(progress))
}

// Link connects a visible node to its visible parent. ID is the child's
// identity.
type Link struct {
	ID     hierarchy.ID
	Parent *hierarchy.Node
	Child  *hierarchy.Node

	// From and To are the link's path at the start and end of the pass.
	From string
	To   string
}

// Diff is the outcome of one reconciliation pass.
type Diff struct {
	// Source is the node that triggered the pass.
	Source *hierarchy.Node

	// Nodes is the current visible set in layout order.
	Nodes []*hierarchy.Node

	Enter  []Transition
	Update []Transition
	Exit   []Transition

	EnterLinks  []Link
	UpdateLinks []Link
	ExitLinks   []Link
}

// Empty reports whether the pass produced no nodes and no exits.
func (d *Diff) Empty() bool {
	return len(d.Nodes) == 0 && len(d.Exit) == 0
}

// ExitIDs returns the identities of the exiting nodes.
func (d *Diff) ExitIDs() []hierarchy.ID {
	ids := make([]hierarchy.ID, len(d.Exit))
	for i, t := range d.Exit {
		ids[i] = t.Node.ID
	}
	return ids
}

// =============================================================================
// Engine
// =============================================================================

// Engine keeps the previously rendered node set and computes diffs against
// it. The zero value is ready to use. An Engine is not safe for concurrent
// use.
type Engine struct {
	next    uint64
	prev    map[hierarchy.ID]*hierarchy.Node
	pending map[hierarchy.ID]*hierarchy.Node
	seen    map[*hierarchy.Node]bool // nodes whose X0/Y0 were written by a pass
}

// Observe assigns an identity to n if it has none and returns it.
func (e *Engine) Observe(n *hierarchy.Node) hierarchy.ID {
	if n.ID == 0 {
		e.next++
		n.ID = hierarchy.ID(e.next)
	}
	return n.ID
}

// Diff reconciles the visible node set with the previous pass.
//
// nodes is the visible set returned by the layout engine; source is the node
// that triggered the pass and may be a virtual root. A nil source means the
// root of the current set. An empty set is a valid pass that moves every
// previously visible node to the exit partition.
func (e *Engine) Diff(nodes []*hierarchy.Node, source *hierarchy.Node) *Diff {
	if e.prev == nil {
		e.prev = make(map[hierarchy.ID]*hierarchy.Node)
		e.pending = make(map[hierarchy.ID]*hierarchy.Node)
		e.seen = make(map[*hierarchy.Node]bool)
	}
	if source == nil && len(nodes) > 0 {
		source = rootOf(nodes[0])
	}

	d := &Diff{Source: source, Nodes: nodes}

	current := make(map[hierarchy.ID]*hierarchy.Node, len(nodes))
	for _, n := range nodes {
		current[e.Observe(n)] = n
	}

	origin, target := e.endpoints(source)

	for _, n := range nodes {
		_, wasVisible := e.prev[n.ID]
		_, wasExiting := e.pending[n.ID]
		switch {
		case wasVisible || wasExiting:
			d.Update = append(d.Update, Transition{Node: n, From: Point{n.X0, n.Y0}, To: Point{n.X, n.Y}})
		default:
			d.Enter = append(d.Enter, Transition{Node: n, From: origin, To: Point{n.X, n.Y}})
		}
		delete(e.pending, n.ID)
	}

	for id, n := range e.prev {
		if _, ok := current[id]; !ok {
			e.pending[id] = n
		}
	}
	exits := make([]*hierarchy.Node, 0, len(e.pending))
	for _, n := range e.pending {
		exits = append(exits, n)
	}
	slices.SortFunc(exits, func(a, b *hierarchy.Node) int {
		return compareID(a.ID, b.ID)
	})
	for _, n := range exits {
		d.Exit = append(d.Exit, Transition{Node: n, From: Point{n.X0, n.Y0}, To: target})
	}

	e.links(d, origin, target)

	e.prev = current
	for _, n := range nodes {
		e.settle(n)
		if p := n.Parent(); p != nil && p.Virtual {
			e.settle(p)
		}
	}
	if source != nil {
		e.settle(source)
	}
	return d
}

// endpoints returns the enter origin and exit target for a pass.
func (e *Engine) endpoints(source *hierarchy.Node) (origin, target Point) {
	if source == nil {
		return Point{}, Point{}
	}
	target = Point{source.X, source.Y}
	switch {
	case e.seen[source]:
		origin = Point{source.X0, source.Y0}
	case source.Parent() == nil:
		origin = Point{source.X, 0}
	default:
		origin = target
	}
	return origin, target
}

func (e *Engine) links(d *Diff, origin, target Point) {
	collapsedOrigin := Diagonal(origin, origin)
	collapsedTarget := Diagonal(target, target)

	for _, t := range d.Enter {
		if p := linkParent(t.Node); p != nil {
			d.EnterLinks = append(d.EnterLinks, Link{
				ID: t.Node.ID, Parent: p, Child: t.Node,
				From: collapsedOrigin,
				To:   Diagonal(Point{p.X, p.Y}, Point{t.Node.X, t.Node.Y}),
			})
		}
	}
	for _, t := range d.Update {
		if p := linkParent(t.Node); p != nil {
			d.UpdateLinks = append(d.UpdateLinks, Link{
				ID: t.Node.ID, Parent: p, Child: t.Node,
				From: Diagonal(Point{p.X0, p.Y0}, Point{t.Node.X0, t.Node.Y0}),
				To:   Diagonal(Point{p.X, p.Y}, Point{t.Node.X, t.Node.Y}),
			})
		}
	}
	for _, t := range d.Exit {
		if p := linkParent(t.Node); p != nil {
			d.ExitLinks = append(d.ExitLinks, Link{
				ID: t.Node.ID, Parent: p, Child: t.Node,
				From: Diagonal(Point{p.X0, p.Y0}, Point{t.Node.X0, t.Node.Y0}),
				To:   collapsedTarget,
			})
		}
	}
}

// settle records n's position as its previous one. Only nodes of the
// current set get an identity; a source outside the set keeps none.
func (e *Engine) settle(n *hierarchy.Node) {
	n.X0, n.Y0 = n.X, n.Y
	e.seen[n] = true
}

// Complete discards the given pending exits once their transitions finish.
func (e *Engine) Complete(ids ...hierarchy.ID) {
	for _, id := range ids {
		delete(e.pending, id)
	}
}

// Flush discards every pending exit.
func (e *Engine) Flush() {
	clear(e.pending)
}

// Pending returns the identities of exits still awaiting completion, in
// ascending order.
func (e *Engine) Pending() []hierarchy.ID {
	ids := make([]hierarchy.ID, 0, len(e.pending))
	for id := range e.pending {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareID)
	return ids
}

// Reset forgets the previous pass and all pending exits. The next pass
// treats every node as entering. Identity assignment continues from where
// it left off.
func (e *Engine) Reset() {
	e.prev = nil
	e.pending = nil
	e.seen = nil
}

// Previous returns the number of nodes in the previous pass.
func (e *Engine) Previous() int {
	return len(e.prev)
}

// linkParent returns the parent a link should be drawn to, or nil when the
// node is a root or hangs off a virtual root.
func linkParent(n *hierarchy.Node) *hierarchy.Node {
	p := n.Parent()
	if p == nil || p.Virtual {
		return nil
	}
	return p
}

func rootOf(n *hierarchy.Node) *hierarchy.Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

func compareID(a, b hierarchy.ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
