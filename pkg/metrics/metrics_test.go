package metrics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

func obj(name string, extra map[string]any, children ...any) map[string]any {
	m := map[string]any{"name": name}
	for k, v := range extra {
		m[k] = v
	}
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

func TestComputeDirectReportsCountsVisibleAndCached(t *testing.T) {
	doc := obj("root", nil,
		obj("m", nil, obj("a", nil), obj("b", nil), obj("c", nil, obj("c1", nil))),
	)
	tree := build(t, doc)
	m := tree.Root.Children[0]
	hierarchy.Collapse(m.Children[2])

	ComputeDirectReports(tree.Root)

	tests := []struct {
		node *hierarchy.Node
		want int
	}{
		{tree.Root, 1},
		{m, 3},
		{m.Children[0], 0},
		{m.Children[2], 1},
	}
	for _, tt := range tests {
		if tt.node.DirectReports != tt.want {
			t.Errorf("%s DirectReports = %d, want %d", tt.node.Name(), tt.node.DirectReports, tt.want)
		}
	}
}

func TestComputeDirectReportsMixedVisibleCached(t *testing.T) {
	tree := build(t, obj("lead", nil, obj("x", nil), obj("y", nil)))
	lead := tree.Root
	ComputeDirectReports(lead)
	if lead.DirectReports != 2 {
		t.Fatalf("DirectReports = %d, want 2", lead.DirectReports)
	}

	hierarchy.Collapse(lead)
	ComputeDirectReports(lead)
	if lead.DirectReports != 2 {
		t.Errorf("collapse should not change the count, got %d", lead.DirectReports)
	}
}

func TestComputeDirectReportsIsNotRecursive(t *testing.T) {
	tree := build(t, obj("ceo", nil, obj("vp", nil, obj("m1", nil), obj("m2", nil))))
	total := ComputeDirectReports(tree.Root)
	if tree.Root.DirectReports != 1 {
		t.Errorf("ceo = %d, want 1", tree.Root.DirectReports)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}

func TestSummarize(t *testing.T) {
	doc := []any{
		obj("A", map[string]any{"department": "Eng", "email": "a@Example.com"},
			obj("A1", map[string]any{"department": "Eng", "email": "a1@example.com"}),
			obj("A2", map[string]any{"department": "Ops"}),
			obj("A3", map[string]any{"department": "Eng"}),
		),
		obj("B", map[string]any{"department": "Ops", "email": "b@other.org"},
			obj("B1", nil),
		),
	}
	tree := build(t, doc)
	hierarchy.ExpandToLevel(tree.Root, 1)
	ComputeDirectReports(tree.Root)

	s := Summarize(tree.Root)
	if s.Nodes != 6 {
		t.Errorf("Nodes = %d, want 6", s.Nodes)
	}
	if s.Visible != 2 {
		t.Errorf("Visible = %d, want 2", s.Visible)
	}
	if s.Managers != 2 || s.Leaves != 4 {
		t.Errorf("Managers/Leaves = %d/%d, want 2/4", s.Managers, s.Leaves)
	}
	if s.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", s.MaxDepth)
	}
	if s.MaxReports != 3 {
		t.Errorf("MaxReports = %d, want 3", s.MaxReports)
	}
	if s.MeanSpan != 2 {
		t.Errorf("MeanSpan = %v, want 2", s.MeanSpan)
	}
	if math.Abs(s.SpanStdDev-math.Sqrt2) > 1e-9 {
		t.Errorf("SpanStdDev = %v, want %v", s.SpanStdDev, math.Sqrt2)
	}
	wantDepts := []Count{{"Eng", 3}, {"Ops", 2}}
	if diff := cmp.Diff(wantDepts, s.Departments); diff != "" {
		t.Errorf("Departments mismatch (-want +got):\n%s", diff)
	}
	wantDomains := []Count{{"example.com", 2}, {"other.org", 1}}
	if diff := cmp.Diff(wantDomains, s.EmailDomains); diff != "" {
		t.Errorf("EmailDomains mismatch (-want +got):\n%s", diff)
	}
}

func TestEmailDomain(t *testing.T) {
	tests := map[string]string{
		"ada@Example.COM": "example.com",
		"no-at-sign":      "",
		"trailing@":       "",
		"":                "",
		"a@b@c.org":       "c.org",
	}
	for in, want := range tests {
		if got := EmailDomain(in); got != want {
			t.Errorf("EmailDomain(%q) = %q, want %q", in, got, want)
		}
	}
}
