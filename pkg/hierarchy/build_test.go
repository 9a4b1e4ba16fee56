package hierarchy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/orgchart/pkg/errors"
)

func obj(name string, children ...any) map[string]any {
	m := map[string]any{"name": name}
	if len(children) > 0 {
		m["children"] = children
	}
	return m
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestBuildSingleObject(t *testing.T) {
	doc := obj("CEO", obj("CTO", obj("Dev")), obj("CFO"))

	tree, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.Virtual || tree.Root.Virtual {
		t.Error("single object should not create a virtual root")
	}
	if tree.Root.Depth != 0 {
		t.Errorf("root depth = %d, want 0", tree.Root.Depth)
	}
	if diff := cmp.Diff([]string{"CEO", "CTO", "Dev", "CFO"}, names(All(tree.Root))); diff != "" {
		t.Errorf("pre-order mismatch (-want +got):\n%s", diff)
	}
	dev := tree.Root.Children[0].Children[0]
	if dev.Depth != 2 {
		t.Errorf("Dev depth = %d, want 2", dev.Depth)
	}
	if dev.Parent() != tree.Root.Children[0] {
		t.Error("Dev parent should be CTO")
	}
	if _, ok := tree.Root.Payload[KeyChildren]; ok {
		t.Error("payload should not carry the children key")
	}
}

func TestBuildSingleElementArrayPromotes(t *testing.T) {
	tree, err := Build([]any{obj("Solo", obj("Report"))})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.Virtual {
		t.Error("single-element array should be promoted, not wrapped")
	}
	if got := tree.Root.Name(); got != "Solo" {
		t.Errorf("root = %q, want Solo", got)
	}
	if tree.Root.Depth != 0 {
		t.Errorf("root depth = %d, want 0", tree.Root.Depth)
	}
}

func TestBuildMultiItemArrayWrapsInVirtualRoot(t *testing.T) {
	tree, err := Build([]any{obj("A"), obj("B", obj("C")), obj("D")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !tree.Virtual || !tree.Root.Virtual {
		t.Fatal("expected a virtual root")
	}
	if got := tree.Root.Name(); got != VirtualRootName {
		t.Errorf("virtual root name = %q, want %q", got, VirtualRootName)
	}
	if v, _ := tree.Root.Payload[KeyVirtual].(bool); !v {
		t.Error("virtual root should carry the marker attribute")
	}
	if diff := cmp.Diff([]string{"A", "B", "D"}, names(tree.Root.Children)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	for _, c := range tree.Root.Children {
		if c.Depth != 1 {
			t.Errorf("%s depth = %d, want 1", c.Name(), c.Depth)
		}
	}
	virtualCount := 0
	WalkAll(tree.Root, func(n *Node) bool {
		if n.Virtual {
			virtualCount++
		}
		return true
	})
	if virtualCount != 1 {
		t.Errorf("virtual nodes = %d, want 1", virtualCount)
	}
	if got := Count(tree.Root); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
}

func TestBuildEmptyInputs(t *testing.T) {
	for _, doc := range []any{nil, []any{}, []any{"not an object", 3.0}} {
		tree, err := Build(doc)
		if err != nil {
			t.Errorf("Build(%v) error = %v, want nil", doc, err)
			continue
		}
		if !tree.Empty() {
			t.Errorf("Build(%v) should yield an empty tree", doc)
		}
	}
}

func TestBuildRejectsScalars(t *testing.T) {
	for _, doc := range []any{"text", 42.0, true} {
		_, err := Build(doc)
		if !errors.Is(err, errors.ErrCodeInvalidDocument) {
			t.Errorf("Build(%v) error = %v, want INVALID_DOCUMENT", doc, err)
		}
	}
}

func TestBuildWarnings(t *testing.T) {
	doc := map[string]any{
		"title": "No name",
		"children": []any{
			obj("Ok"),
			"junk",
			map[string]any{"name": "Bad children", "children": "oops"},
		},
	}

	tree, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Warning{
		{Path: "$", Message: "missing name"},
		{Path: "$.children[1]", Message: "expected object, got string; skipped"},
		{Path: "$.children[2].children", Message: "expected array, got string; treated as leaf"},
	}
	if diff := cmp.Diff(want, tree.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
	if got := len(tree.Root.Children); got != 2 {
		t.Errorf("children = %d, want 2", got)
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	doc := []any{obj("A", obj("A1")), obj("B")}
	want := []any{obj("A", obj("A1")), obj("B")}

	tree, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	CollapseAll(tree.Root)
	tree.Root.Children[0].Payload["name"] = "changed"

	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("input document changed (-want +got):\n%s", diff)
	}
}

func TestPayloadString(t *testing.T) {
	p := Payload{
		"name":    "Ada",
		"age":     36.0,
		"active":  true,
		"nothing": nil,
		"nested":  map[string]any{"a": 1},
	}
	tests := map[string]string{
		"name":    "Ada",
		"age":     "36",
		"active":  "true",
		"nothing": "",
		"nested":  "",
		"missing": "",
	}
	for key, want := range tests {
		if got := p.String(key); got != want {
			t.Errorf("String(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestLevelIgnoresVirtualRoot(t *testing.T) {
	single, err := Build(obj("A", obj("B")))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	multi, err := Build([]any{obj("A", obj("B")), obj("C")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, tree := range []*Tree{single, multi} {
		WalkAll(tree.Root, func(n *Node) bool {
			if n.Virtual {
				return true
			}
			want := 0
			if n.Name() == "B" {
				want = 1
			}
			if got := n.Level(); got != want {
				t.Errorf("virtual=%v %s Level = %d, want %d", tree.Virtual, n.Name(), got, want)
			}
			return true
		})
	}
	if got := multi.Root.Level(); got != 0 {
		t.Errorf("virtual root Level = %d, want 0", got)
	}
}
