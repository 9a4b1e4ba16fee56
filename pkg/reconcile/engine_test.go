package reconcile

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/layout"
)

func obj(name string, children ...any) map[string]any {
	m := map[string]any{"name": name}
	if len(children) > 0 {
		m["children"] = children
	}
	return m
}

func build(t *testing.T, doc any) *hierarchy.Tree {
	t.Helper()
	tree, err := hierarchy.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func ids(ts []Transition) []hierarchy.ID {
	out := make([]hierarchy.ID, len(ts))
	for i, t := range ts {
		out[i] = t.Node.ID
	}
	slices.Sort(out)
	return out
}

func transitionNames(ts []Transition) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Node.Name()
	}
	slices.Sort(out)
	return out
}

func TestDiffPartitions(t *testing.T) {
	tree := build(t, obj("r", obj("a"), obj("b"), obj("c"), obj("d")))
	a, b, c, d := tree.Root.Children[0], tree.Root.Children[1], tree.Root.Children[2], tree.Root.Children[3]

	var e Engine
	first := e.Diff([]*hierarchy.Node{a, b, c}, tree.Root)
	if diff := cmp.Diff([]hierarchy.ID{1, 2, 3}, ids(first.Enter)); diff != "" {
		t.Fatalf("first pass enter mismatch (-want +got):\n%s", diff)
	}

	// Order of the current set must not matter.
	second := e.Diff([]*hierarchy.Node{d, c, b}, tree.Root)
	if diff := cmp.Diff([]hierarchy.ID{4}, ids(second.Enter)); diff != "" {
		t.Errorf("enter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]hierarchy.ID{2, 3}, ids(second.Update)); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]hierarchy.ID{1}, ids(second.Exit)); diff != "" {
		t.Errorf("exit mismatch (-want +got):\n%s", diff)
	}
}

func TestUnrenderedSourceKeepsNoIdentity(t *testing.T) {
	tree := build(t, obj("r", obj("a"), obj("b")))
	a, b := tree.Root.Children[0], tree.Root.Children[1]

	var e Engine
	e.Diff([]*hierarchy.Node{a}, tree.Root)
	if tree.Root.ID != 0 {
		t.Errorf("source outside the set got id %v", tree.Root.ID)
	}

	d := e.Diff([]*hierarchy.Node{a, b}, tree.Root)
	if diff := cmp.Diff([]hierarchy.ID{2}, ids(d.Enter)); diff != "" {
		t.Errorf("enter mismatch (-want +got):\n%s", diff)
	}
	if got := d.Enter[0].From; got != (Point{tree.Root.X0, tree.Root.Y0}) {
		t.Errorf("enter from = %+v, want the source's settled position", got)
	}
}

func TestEndToEndExpandUnderVirtualRoot(t *testing.T) {
	tree := build(t, []any{obj("A"), obj("B", obj("C"))})
	if !tree.Virtual {
		t.Fatal("expected a virtual root")
	}
	hierarchy.ExpandToLevel(tree.Root, 1)

	a, b := tree.Root.Children[0], tree.Root.Children[1]
	if !a.IsLeaf() || !b.IsCollapsed() || len(b.Cached()) != 1 {
		t.Fatalf("initial states: A=%v B=%v", a.State(), b.State())
	}

	var eng layout.Engine
	var e Engine
	e.Diff(eng.Assign(tree.Root, layout.Params{}), tree.Root)

	hierarchy.Expand(b)
	d := e.Diff(eng.Assign(tree.Root, layout.Params{}), b)

	if diff := cmp.Diff([]string{"C"}, transitionNames(d.Enter)); diff != "" {
		t.Errorf("enter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, transitionNames(d.Update)); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}
	if len(d.Exit) != 0 {
		t.Errorf("exit = %v, want none", transitionNames(d.Exit))
	}
	for _, n := range d.Nodes {
		if n.Virtual {
			t.Error("virtual root must not be in the node set")
		}
	}
	for _, l := range append(d.EnterLinks, d.UpdateLinks...) {
		if l.Parent.Virtual {
			t.Errorf("link %s hangs off the virtual root", l.ID)
		}
	}
	if len(d.EnterLinks) != 1 || d.EnterLinks[0].Child.Name() != "C" {
		t.Errorf("enter links = %+v, want one link to C", d.EnterLinks)
	}
}

func TestEnterStartsAtSourcePreviousPosition(t *testing.T) {
	tree := build(t, obj("r", obj("m", obj("x"))))
	m := tree.Root.Children[0]
	hierarchy.Collapse(m)

	var eng layout.Engine
	var e Engine
	e.Diff(eng.Assign(tree.Root, layout.Params{HorizontalSpacing: 100}), tree.Root)
	prevM := Point{m.X, m.Y}

	hierarchy.Expand(m)
	d := e.Diff(eng.Assign(tree.Root, layout.Params{HorizontalSpacing: 100}), m)
	if len(d.Enter) != 1 {
		t.Fatalf("enter = %d, want 1", len(d.Enter))
	}
	if got := d.Enter[0].From; got != prevM {
		t.Errorf("enter from = %+v, want %+v", got, prevM)
	}
	if got := d.Enter[0].To; got != (Point{d.Enter[0].Node.X, d.Enter[0].Node.Y}) {
		t.Errorf("enter to = %+v, want node position", got)
	}
}

func TestInitialPassEntersFromRootColumn(t *testing.T) {
	tree := build(t, obj("r", obj("a"), obj("b")))
	var e Engine
	d := e.Diff(layout.Engine{}.Assign(tree.Root, layout.Params{}), nil)
	want := Point{tree.Root.X, 0}
	for _, tr := range d.Enter {
		if tr.From != want {
			t.Errorf("%s enters from %+v, want %+v", tr.Node.Name(), tr.From, want)
		}
	}
	if d.Source != tree.Root {
		t.Errorf("nil source should default to the root")
	}
}

func TestExitMovesTowardSourceAndStaysPending(t *testing.T) {
	tree := build(t, obj("r", obj("m", obj("x"), obj("y"))))
	m := tree.Root.Children[0]

	var eng layout.Engine
	var e Engine
	e.Diff(eng.Assign(tree.Root, layout.Params{}), tree.Root)

	hierarchy.Collapse(m)
	d := e.Diff(eng.Assign(tree.Root, layout.Params{}), m)
	if got := transitionNames(d.Exit); !slices.Equal(got, []string{"x", "y"}) {
		t.Fatalf("exit = %v, want [x y]", got)
	}
	for _, tr := range d.Exit {
		if tr.To != (Point{m.X, m.Y}) {
			t.Errorf("%s exits to %+v, want source position", tr.Node.Name(), tr.To)
		}
	}
	if len(d.ExitLinks) != 2 {
		t.Errorf("exit links = %d, want 2", len(d.ExitLinks))
	}
	if got := len(e.Pending()); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}

	// A restarted pass re-targets pending exits.
	d = e.Diff(eng.Assign(tree.Root, layout.Params{}), tree.Root)
	if got := len(d.Exit); got != 2 {
		t.Errorf("re-targeted exits = %d, want 2", got)
	}

	e.Complete(d.Exit[0].Node.ID)
	if got := len(e.Pending()); got != 1 {
		t.Errorf("pending after Complete = %d, want 1", got)
	}
	e.Flush()
	if got := len(e.Pending()); got != 0 {
		t.Errorf("pending after Flush = %d, want 0", got)
	}
}

func TestReappearingExitBecomesUpdate(t *testing.T) {
	tree := build(t, obj("r", obj("m", obj("x"))))
	m := tree.Root.Children[0]

	var eng layout.Engine
	var e Engine
	e.Diff(eng.Assign(tree.Root, layout.Params{}), tree.Root)

	hierarchy.Collapse(m)
	e.Diff(eng.Assign(tree.Root, layout.Params{}), m)

	hierarchy.Expand(m)
	d := e.Diff(eng.Assign(tree.Root, layout.Params{}), m)
	if len(d.Enter) != 0 {
		t.Errorf("enter = %v, want none", transitionNames(d.Enter))
	}
	if got := transitionNames(d.Update); !slices.Equal(got, []string{"m", "r", "x"}) {
		t.Errorf("update = %v, want [m r x]", got)
	}
	if len(e.Pending()) != 0 {
		t.Errorf("pending = %v, want none", e.Pending())
	}
}

func TestIdentityPersistsAcrossCollapse(t *testing.T) {
	tree := build(t, obj("r", obj("m", obj("x"))))
	x := tree.Root.Children[0].Children[0]

	var e Engine
	e.Diff(layout.Engine{}.Assign(tree.Root, layout.Params{}), nil)
	id := x.ID

	hierarchy.Collapse(tree.Root.Children[0])
	e.Diff(layout.Engine{}.Assign(tree.Root, layout.Params{}), nil)
	hierarchy.Expand(tree.Root.Children[0])
	e.Diff(layout.Engine{}.Assign(tree.Root, layout.Params{}), nil)

	if x.ID != id {
		t.Errorf("ID changed from %v to %v", id, x.ID)
	}
}

func TestEmptyPass(t *testing.T) {
	tree := build(t, obj("r", obj("a")))
	var e Engine
	e.Diff(layout.Engine{}.Assign(tree.Root, layout.Params{}), nil)

	d := e.Diff(nil, tree.Root)
	if len(d.Nodes) != 0 || len(d.Enter) != 0 || len(d.Update) != 0 {
		t.Errorf("empty pass produced nodes: %+v", d)
	}
	if len(d.Exit) != 2 {
		t.Errorf("exit = %d, want 2", len(d.Exit))
	}

	var fresh Engine
	if d := fresh.Diff(nil, nil); !d.Empty() {
		t.Error("first empty pass should be empty")
	}
}

func TestResetKeepsCounter(t *testing.T) {
	first := build(t, obj("r", obj("a")))
	var e Engine
	e.Diff(layout.Engine{}.Assign(first.Root, layout.Params{}), nil)

	e.Reset()
	if e.Previous() != 0 || len(e.Pending()) != 0 {
		t.Fatal("Reset should clear previous and pending state")
	}

	second := build(t, obj("r", obj("a")))
	d := e.Diff(layout.Engine{}.Assign(second.Root, layout.Params{}), nil)
	if len(d.Enter) != 2 || len(d.Update) != 0 {
		t.Errorf("after Reset enter/update = %d/%d, want 2/0", len(d.Enter), len(d.Update))
	}
	for _, n := range d.Nodes {
		if n.ID <= 2 {
			t.Errorf("%s got recycled id %v", n.Name(), n.ID)
		}
	}
}

func TestPositionsSettleAfterPass(t *testing.T) {
	tree := build(t, obj("r", obj("a"), obj("b")))
	var e Engine
	d := e.Diff(layout.Engine{}.Assign(tree.Root, layout.Params{}), nil)
	for _, n := range d.Nodes {
		if n.X0 != n.X || n.Y0 != n.Y {
			t.Errorf("%s previous position not settled", n.Name())
		}
	}
}

func TestPartitionsAreDisjoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodes := make([]*hierarchy.Node, 12)
		root := &hierarchy.Node{Payload: hierarchy.Payload{"name": "root"}}
		for i := range nodes {
			nodes[i] = &hierarchy.Node{Payload: hierarchy.Payload{"name": "n"}}
		}

		var e Engine
		passes := rapid.IntRange(1, 6).Draw(t, "passes")
		prev := map[hierarchy.ID]bool{}
		for p := 0; p < passes; p++ {
			var set []*hierarchy.Node
			for _, n := range nodes {
				if rapid.Bool().Draw(t, "in") {
					set = append(set, n)
				}
			}
			d := e.Diff(set, root)
			e.Flush()

			cur := map[hierarchy.ID]bool{}
			for _, n := range set {
				cur[n.ID] = true
			}
			for _, tr := range d.Enter {
				if prev[tr.Node.ID] || !cur[tr.Node.ID] {
					t.Fatalf("pass %d: enter %v invalid", p, tr.Node.ID)
				}
			}
			for _, tr := range d.Update {
				if !prev[tr.Node.ID] || !cur[tr.Node.ID] {
					t.Fatalf("pass %d: update %v invalid", p, tr.Node.ID)
				}
			}
			for _, tr := range d.Exit {
				if !prev[tr.Node.ID] || cur[tr.Node.ID] {
					t.Fatalf("pass %d: exit %v invalid", p, tr.Node.ID)
				}
			}
			if len(d.Enter)+len(d.Update) != len(set) {
				t.Fatalf("pass %d: enter+update = %d, want %d", p, len(d.Enter)+len(d.Update), len(set))
			}
			prev = cur
		}
	})
}
