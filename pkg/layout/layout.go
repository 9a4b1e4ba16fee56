// Package layout assigns positions to the visible nodes of a hierarchy.
//
// The layout is horizontal: Y grows with depth (one column per level) and X
// runs along the sibling axis. Ordinates come from a tidy tree pass. Leaves
// are placed in visible pre-order, siblings one node slot apart and cousins
// two slots apart. Every parent sits midway between its first and last
// visible child.
//
// With a virtual root (see [hierarchy.Build]), the synthetic node is laid out
// at effective depth -1, so the real top-level items share the first column.
// The virtual root is never part of the returned node set.
package layout

import (
	"math"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// Defaults applied by [Params.SetDefaults].
const (
	DefaultHorizontalSpacing = 180.0
	DefaultVerticalSpacing   = 1.0
	DefaultNodeSize          = 40.0
)

// Params controls node placement.
type Params struct {
	// HorizontalSpacing is the distance between depth columns.
	HorizontalSpacing float64

	// VerticalSpacing multiplies the sibling-axis ordinates.
	VerticalSpacing float64

	// NodeSize is the sibling-axis distance between adjacent siblings.
	NodeSize float64

	// Extent, when positive, rescales the ordinates into [0, Extent]
	// before VerticalSpacing is applied (fit-to-height).
	Extent float64
}

// SetDefaults fills zero fields with their defaults.
func (p *Params) SetDefaults() {
	if p.HorizontalSpacing == 0 {
		p.HorizontalSpacing = DefaultHorizontalSpacing
	}
	if p.VerticalSpacing == 0 {
		p.VerticalSpacing = DefaultVerticalSpacing
	}
	if p.NodeSize == 0 {
		p.NodeSize = DefaultNodeSize
	}
}

// Validate rejects negative or non-finite parameters.
func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"horizontalSpacing", p.HorizontalSpacing},
		{"verticalSpacing", p.VerticalSpacing},
		{"nodeSize", p.NodeSize},
		{"extent", p.Extent},
	}
	for _, c := range checks {
		if err := errors.ValidateSpacing(c.name, c.v); err != nil {
			return err
		}
	}
	return nil
}

// Engine computes layouts. The zero value is ready to use.
type Engine struct{}

// Assign computes X and Y for every visible node of the tree at root and
// returns the visible nodes in pre-order, excluding a virtual root. The
// virtual root itself still receives a position so that links and enter
// origins can refer to it.
//
// Assign writes only X and Y; X0 and Y0 belong to the reconciliation pass.
// A nil root yields an empty result.
func (Engine) Assign(root *hierarchy.Node, p Params) []*hierarchy.Node {
	if root == nil {
		return nil
	}
	p.SetDefaults()

	ords := make(map[*hierarchy.Node]float64)
	t := &tidy{ords: ords}
	t.place(root)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, o := range ords {
		lo = math.Min(lo, o)
		hi = math.Max(hi, o)
	}

	offset := 0
	if root.Virtual {
		offset = 1
	}

	var out []*hierarchy.Node
	hierarchy.Walk(root, func(n *hierarchy.Node) bool {
		o := ords[n] * p.NodeSize
		if p.Extent > 0 {
			o = rescale(ords[n], lo, hi, p.Extent)
		}
		n.X = o * p.VerticalSpacing
		n.Y = float64(n.Depth-offset) * p.HorizontalSpacing
		if !n.Virtual {
			out = append(out, n)
		}
		return true
	})
	return out
}

// rescale maps an ordinate from [lo, hi] into [0, extent], keeping half a
// slot of padding at both ends.
func rescale(o, lo, hi, extent float64) float64 {
	return (o - lo + 0.5) / (hi - lo + 1) * extent
}

// tidy assigns ordinal positions in units of one node slot.
type tidy struct {
	ords     map[*hierarchy.Node]float64
	last     *hierarchy.Node // previously placed leaf
	lastLeaf float64
}

func (t *tidy) place(n *hierarchy.Node) {
	if len(n.Children) == 0 {
		switch {
		case t.last == nil:
			t.lastLeaf = 0
		case t.last.Parent() == n.Parent():
			t.lastLeaf++
		default:
			t.lastLeaf += 2
		}
		t.last = n
		t.ords[n] = t.lastLeaf
		return
	}
	for _, c := range n.Children {
		t.place(c)
	}
	first := t.ords[n.Children[0]]
	last := t.ords[n.Children[len(n.Children)-1]]
	t.ords[n] = (first + last) / 2
}

// Bounds returns the bounding box of the given nodes' current positions.
// It returns zeros for an empty set.
func Bounds(nodes []*hierarchy.Node) (minX, minY, maxX, maxY float64) {
	if len(nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X)
		minY = math.Min(minY, n.Y)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}
