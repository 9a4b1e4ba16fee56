package layout

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
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

func byName(nodes []*hierarchy.Node) map[string]*hierarchy.Node {
	m := make(map[string]*hierarchy.Node, len(nodes))
	for _, n := range nodes {
		m[n.Name()] = n
	}
	return m
}

func TestAssignDepthSpacing(t *testing.T) {
	tree := build(t, obj("a", obj("b", obj("c"))))
	nodes := Engine{}.Assign(tree.Root, Params{HorizontalSpacing: 50})
	got := byName(nodes)
	if y := got["c"].Y; y != 100 {
		t.Errorf("depth 2 Y = %v, want 100", y)
	}
	if y := got["a"].Y; y != 0 {
		t.Errorf("root Y = %v, want 0", y)
	}
}

func TestAssignVirtualRootShiftsDepth(t *testing.T) {
	tree := build(t, []any{obj("A"), obj("B", obj("C", obj("D")))})
	nodes := Engine{}.Assign(tree.Root, Params{HorizontalSpacing: 50})

	if len(nodes) != 4 {
		t.Fatalf("len(nodes) = %d, want 4", len(nodes))
	}
	for _, n := range nodes {
		if n.Virtual {
			t.Fatal("virtual root should not be returned")
		}
	}
	got := byName(nodes)
	tests := map[string]float64{"A": 0, "B": 0, "C": 50, "D": 100}
	for name, want := range tests {
		if y := got[name].Y; y != want {
			t.Errorf("%s Y = %v, want %v", name, y, want)
		}
	}
	if y := tree.Root.Y; y != -50 {
		t.Errorf("virtual root Y = %v, want -50", y)
	}
}

func TestAssignTidyOrdinates(t *testing.T) {
	// root
	// ├── a ── a1, a2
	// └── b ── b1
	tree := build(t, obj("root", obj("a", obj("a1"), obj("a2")), obj("b", obj("b1"))))
	got := byName(Engine{}.Assign(tree.Root, Params{NodeSize: 10}))

	// a1=0, a2=1 (siblings), b1=3 (cousin gap of two slots).
	tests := map[string]float64{
		"a1":   0,
		"a2":   10,
		"b1":   30,
		"a":    5,
		"b":    30,
		"root": 17.5,
	}
	for name, want := range tests {
		if x := got[name].X; x != want {
			t.Errorf("%s X = %v, want %v", name, x, want)
		}
	}
}

func TestAssignVerticalSpacingScales(t *testing.T) {
	tree := build(t, obj("root", obj("a"), obj("b")))
	got := byName(Engine{}.Assign(tree.Root, Params{NodeSize: 10, VerticalSpacing: 2.5}))
	if x := got["b"].X; x != 25 {
		t.Errorf("b X = %v, want 25", x)
	}
}

func TestAssignExtentFitsRange(t *testing.T) {
	tree := build(t, obj("root", obj("a"), obj("b"), obj("c")))
	got := byName(Engine{}.Assign(tree.Root, Params{Extent: 300}))

	tests := map[string]float64{"a": 50, "b": 150, "c": 250, "root": 150}
	for name, want := range tests {
		if x := got[name].X; math.Abs(x-want) > 1e-9 {
			t.Errorf("%s X = %v, want %v", name, x, want)
		}
	}
}

func TestAssignSingleNodeExtent(t *testing.T) {
	tree := build(t, obj("solo"))
	nodes := Engine{}.Assign(tree.Root, Params{Extent: 200})
	if len(nodes) != 1 || nodes[0].X != 100 {
		t.Errorf("single node X = %v, want 100", nodes[0].X)
	}
}

func TestAssignSkipsCollapsedSubtrees(t *testing.T) {
	tree := build(t, obj("root", obj("a", obj("a1")), obj("b")))
	hierarchy.Collapse(tree.Root.Children[0])
	nodes := Engine{}.Assign(tree.Root, Params{})
	if len(nodes) != 3 {
		t.Errorf("len(nodes) = %d, want 3", len(nodes))
	}
}

func TestAssignLeavesPositionsUntouched(t *testing.T) {
	tree := build(t, obj("root", obj("a")))
	tree.Root.X0, tree.Root.Y0 = 7, 8
	Engine{}.Assign(tree.Root, Params{})
	if tree.Root.X0 != 7 || tree.Root.Y0 != 8 {
		t.Error("Assign must not touch the previous position")
	}
}

func TestAssignNil(t *testing.T) {
	if got := (Engine{}).Assign(nil, Params{}); got != nil {
		t.Errorf("Assign(nil) = %v, want nil", got)
	}
}

func TestAssignIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := genDoc(t, 0, "r")
		first, _ := hierarchy.Build(doc)
		second, _ := hierarchy.Build(doc)

		a := Engine{}.Assign(first.Root, Params{})
		b := Engine{}.Assign(second.Root, Params{})
		if len(a) != len(b) {
			t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i].X != b[i].X || a[i].Y != b[i].Y {
				t.Fatalf("node %d: (%v,%v) vs (%v,%v)", i, a[i].X, a[i].Y, b[i].X, b[i].Y)
			}
		}
	})
}

func TestAssignSiblingsAreOrdered(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree, _ := hierarchy.Build(genDoc(t, 0, "r"))
		Engine{}.Assign(tree.Root, Params{})
		hierarchy.Walk(tree.Root, func(n *hierarchy.Node) bool {
			for i := 1; i < len(n.Children); i++ {
				if n.Children[i].X <= n.Children[i-1].X {
					t.Fatalf("children of %s not increasing at %d", n.Name(), i)
				}
			}
			return true
		})
	})
}

func genDoc(t *rapid.T, depth int, label string) map[string]any {
	n := 0
	if depth < 3 {
		n = rapid.IntRange(0, 3).Draw(t, label+".n")
	}
	children := make([]any, n)
	for i := range children {
		children[i] = genDoc(t, depth+1, label+"."+string(rune('a'+i)))
	}
	return obj(label, children...)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"defaults", Params{}, true},
		{"negative spacing", Params{HorizontalSpacing: -1}, false},
		{"nan", Params{VerticalSpacing: math.NaN()}, false},
		{"inf extent", Params{Extent: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		err := tt.p.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidParameter) {
			t.Errorf("%s: error = %v, want INVALID_PARAMETER", tt.name, err)
		}
	}
}

func TestBounds(t *testing.T) {
	tree := build(t, obj("root", obj("a"), obj("b")))
	nodes := Engine{}.Assign(tree.Root, Params{NodeSize: 10, HorizontalSpacing: 100})
	minX, minY, maxX, maxY := Bounds(nodes)
	if minX != 0 || maxX != 10 || minY != 0 || maxY != 100 {
		t.Errorf("Bounds = (%v,%v,%v,%v)", minX, minY, maxX, maxY)
	}
}
