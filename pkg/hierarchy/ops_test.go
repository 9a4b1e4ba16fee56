package hierarchy

import (
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"
)

type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

func mustBuild(t fataler, doc any) *Tree {
	t.Helper()
	tree, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

// genDoc draws a random organization document.
func genDoc(t *rapid.T, depth int, label string) map[string]any {
	n := 0
	if depth < 4 {
		n = rapid.IntRange(0, 4).Draw(t, label+".n")
	}
	m := map[string]any{"name": label}
	if n > 0 {
		children := make([]any, n)
		for i := range children {
			children[i] = genDoc(t, depth+1, fmt.Sprintf("%s.%d", label, i))
		}
		m["children"] = children
	}
	return m
}

func TestCollapseExpandRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := mustBuild(t, genDoc(t, 0, "root"))
		all := All(tree.Root)
		n := all[rapid.IntRange(0, len(all)-1).Draw(t, "node")]
		if len(n.Children) == 0 {
			t.Skip("leaf")
		}

		before := slices.Clone(n.Children)
		if !Collapse(n) {
			t.Fatal("Collapse reported no change on an expanded node")
		}
		if len(n.Children) != 0 || len(n.Cached()) != len(before) {
			t.Fatalf("collapse should move children into the cache")
		}
		if !Expand(n) {
			t.Fatal("Expand reported no change on a collapsed node")
		}
		if len(n.Cached()) != 0 {
			t.Fatal("expand should clear the cache")
		}
		if len(n.Children) != len(before) {
			t.Fatalf("children = %d, want %d", len(n.Children), len(before))
		}
		for i := range before {
			if n.Children[i] != before[i] {
				t.Fatalf("child %d pointer changed after round trip", i)
			}
		}
	})
}

func TestToggleIsInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := mustBuild(t, genDoc(t, 0, "root"))
		all := All(tree.Root)
		for _, n := range all {
			if rapid.Bool().Draw(t, "collapse "+n.Name()) {
				Collapse(n)
			}
		}
		n := all[rapid.IntRange(0, len(all)-1).Draw(t, "node")]

		visible := slices.Clone(n.Children)
		cached := slices.Clone(n.Cached())
		Toggle(n)
		Toggle(n)

		if !slices.Equal(visible, n.Children) || !slices.Equal(cached, n.Cached()) {
			t.Fatalf("toggle twice changed %s: visible %d->%d cached %d->%d",
				n.Name(), len(visible), len(n.Children), len(cached), len(n.Cached()))
		}
	})
}

func TestChildSidesAreExclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := mustBuild(t, genDoc(t, 0, "root"))
		ops := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 20).Draw(t, "ops")
		for _, op := range ops {
			all := All(tree.Root)
			n := all[rapid.IntRange(0, len(all)-1).Draw(t, "target")]
			switch op {
			case 0:
				Toggle(n)
			case 1:
				Collapse(n)
			case 2:
				Expand(n)
			case 3:
				ExpandAll(n)
			case 4:
				CollapseAll(n)
			case 5:
				ExpandToLevel(n, rapid.IntRange(0, 5).Draw(t, "level"))
			}
		}
		WalkAll(tree.Root, func(n *Node) bool {
			if len(n.Children) > 0 && len(n.Cached()) > 0 {
				t.Fatalf("%s has both visible and cached children", n.Name())
			}
			return true
		})
	})
}

func TestLeafOperationsAreNoops(t *testing.T) {
	tree := mustBuild(t, obj("leaf"))
	n := tree.Root
	if Collapse(n) || Expand(n) || Toggle(n) {
		t.Error("operations on a leaf should report no change")
	}
	if n.State() != Leaf {
		t.Errorf("State() = %v, want leaf", n.State())
	}
	if Collapse(nil) || Expand(nil) || Toggle(nil) {
		t.Error("operations on nil should report no change")
	}
}

func TestExpandToLevel(t *testing.T) {
	doc := obj("root",
		obj("a", obj("a1", obj("a1x")), obj("a2")),
		obj("b", obj("b1")),
	)

	tests := []struct {
		level int
		want  []string
	}{
		{0, []string{"root"}},
		{1, []string{"root", "a", "b"}},
		{2, []string{"root", "a", "a1", "a2", "b", "b1"}},
		{9, []string{"root", "a", "a1", "a1x", "a2", "b", "b1"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("level %d", tt.level), func(t *testing.T) {
			tree := mustBuild(t, doc)
			ExpandToLevel(tree.Root, tt.level)
			if got := names(Visible(tree.Root)); !slices.Equal(got, tt.want) {
				t.Errorf("visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandToLevelFromCollapsedState(t *testing.T) {
	tree := mustBuild(t, obj("root", obj("a", obj("a1", obj("a1x")))))
	CollapseAll(tree.Root)
	Collapse(tree.Root)

	ExpandToLevel(tree.Root, 3)
	want := []string{"root", "a", "a1", "a1x"}
	if got := names(Visible(tree.Root)); !slices.Equal(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestExpandToLevelCountsFromVirtualRoot(t *testing.T) {
	tree := mustBuild(t, []any{obj("A"), obj("B", obj("C"))})
	ExpandToLevel(tree.Root, 1)

	b := tree.Root.Children[1]
	if !b.IsCollapsed() {
		t.Fatalf("B state = %v, want collapsed", b.State())
	}
	if got := len(b.Cached()); got != 1 {
		t.Errorf("B cached = %d, want 1", got)
	}
	if a := tree.Root.Children[0]; !a.IsLeaf() {
		t.Errorf("A state = %v, want leaf", a.State())
	}
}

func TestCollapseAllKeepsRootOpen(t *testing.T) {
	tree := mustBuild(t, obj("root", obj("a", obj("a1")), obj("b", obj("b1"))))
	CollapseAll(tree.Root)

	if !tree.Root.IsExpanded() {
		t.Fatalf("root state = %v, want expanded", tree.Root.State())
	}
	if got := names(Visible(tree.Root)); !slices.Equal(got, []string{"root", "a", "b"}) {
		t.Errorf("visible = %v", got)
	}

	// Collapsing a collapsed root re-opens it.
	Collapse(tree.Root)
	CollapseAll(tree.Root)
	if !tree.Root.IsExpanded() {
		t.Error("CollapseAll should leave the root expanded")
	}

	ExpandAll(tree.Root)
	if got := len(Visible(tree.Root)); got != 5 {
		t.Errorf("visible after ExpandAll = %d, want 5", got)
	}
}

func TestFindAncestorsPath(t *testing.T) {
	tree := mustBuild(t, []any{obj("A", obj("A1", obj("A1x"))), obj("B")})
	for i, n := range All(tree.Root) {
		n.ID = ID(i + 1)
	}
	Collapse(tree.Root.Children[0])

	a1x := Find(tree.Root, 4)
	if a1x == nil || a1x.Name() != "A1x" {
		t.Fatalf("Find(4) = %v, want A1x", a1x)
	}
	if got := Path(a1x); !slices.Equal(got, []string{"A", "A1", "A1x"}) {
		t.Errorf("Path = %v", got)
	}
	if got := names(Ancestors(a1x)); !slices.Equal(got, []string{VirtualRootName, "A", "A1"}) {
		t.Errorf("Ancestors = %v", got)
	}
	if m := Manager(tree.Root.Children[0]); m != nil {
		t.Errorf("top-level item under a virtual root should have no manager, got %s", m.Name())
	}
	if m := Manager(a1x); m == nil || m.Name() != "A1" {
		t.Errorf("Manager(A1x) = %v, want A1", m)
	}
	if Find(tree.Root, 0) != nil || Find(tree.Root, 99) != nil {
		t.Error("Find should return nil for unknown ids")
	}
}
