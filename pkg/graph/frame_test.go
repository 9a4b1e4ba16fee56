package graph

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/metrics"
	"github.com/matzehuels/orgchart/pkg/reconcile"
	"github.com/matzehuels/orgchart/pkg/search"
)

func buildFrame(t *testing.T, doc any) (*hierarchy.Tree, *Frame) {
	t.Helper()
	tree, err := hierarchy.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	metrics.ComputeDirectReports(tree.Root)
	var params layout.Params
	params.SetDefaults()
	nodes := layout.Engine{}.Assign(tree.Root, params)
	var eng reconcile.Engine
	diff := eng.Diff(nodes, nil)
	scheme := color.NewScheme(color.Department, tree.Root, color.Options{})
	matches := search.New().Matches(tree.Root, "grace")
	return tree, FromDiff(diff, Options{DocumentID: "doc-1", Params: params, Scheme: scheme, Matches: matches})
}

var sample = map[string]any{
	"name":       "Ada",
	"department": "Exec",
	"children": []any{
		map[string]any{"name": "Grace", "department": "Eng"},
		map[string]any{"name": "Alan", "department": "Research"},
	},
}

func TestFromDiff(t *testing.T) {
	_, f := buildFrame(t, sample)

	if f.ID == "" || f.DocumentID != "doc-1" {
		t.Errorf("ids = %q, %q", f.ID, f.DocumentID)
	}
	if len(f.Nodes) != 3 || len(f.Links) != 2 {
		t.Fatalf("got %d nodes, %d links, want 3, 2", len(f.Nodes), len(f.Links))
	}
	if len(f.Enter) != 3 || len(f.Update) != 0 || len(f.Exit) != 0 {
		t.Errorf("partition = %v/%v/%v", f.Enter, f.Update, f.Exit)
	}
	if f.ColorMode != "department" || f.Theme != ThemeLight {
		t.Errorf("color mode %q, theme %q", f.ColorMode, f.Theme)
	}

	root := f.Nodes[0]
	if root.Name != "Ada" || root.Reports != 2 || root.State != "expanded" || root.Parent != 0 {
		t.Errorf("root = %+v", root)
	}
	for _, n := range f.Nodes[1:] {
		if n.Parent != root.ID {
			t.Errorf("%s parent = %d, want %d", n.Name, n.Parent, root.ID)
		}
		if n.Y != layout.DefaultHorizontalSpacing {
			t.Errorf("%s y = %v", n.Name, n.Y)
		}
	}

	grace, ok := f.NodeByID(f.Nodes[1].ID)
	if !ok || !grace.Match || f.Nodes[2].Match {
		t.Errorf("search highlight not carried: %+v", f.Nodes)
	}
	if len(f.Legend.Items) != 3 {
		t.Errorf("legend items = %d, want 3", len(f.Legend.Items))
	}
	if f.Bounds.Width() != layout.DefaultHorizontalSpacing {
		t.Errorf("bounds width = %v", f.Bounds.Width())
	}
}

func TestFromDiffVirtualRootHasNoLinks(t *testing.T) {
	_, f := buildFrame(t, []any{
		map[string]any{"name": "A"},
		map[string]any{"name": "B", "children": []any{map[string]any{"name": "C"}}},
	})
	if len(f.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(f.Nodes))
	}
	if len(f.Links) != 1 {
		t.Errorf("links = %d, want 1 (B-C)", len(f.Links))
	}
	for _, n := range f.Nodes {
		if n.Name == "Organization" {
			t.Error("virtual root leaked into frame nodes")
		}
		if (n.Name == "A" || n.Name == "B") && n.Parent != 0 {
			t.Errorf("%s parent = %d, want 0", n.Name, n.Parent)
		}
	}
}

func TestFromDiffEmpty(t *testing.T) {
	f := FromDiff(&reconcile.Diff{}, Options{})
	if !f.IsEmpty() {
		t.Error("frame should be empty")
	}
	if f.Nodes == nil || f.Links == nil {
		t.Error("empty frame should encode empty arrays, not null")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	_, f := buildFrame(t, sample)
	path := filepath.Join(t.TempDir(), "frame.json")
	if err := WriteFrameFile(f, path); err != nil {
		t.Fatalf("WriteFrameFile: %v", err)
	}
	got, err := ReadFrameFile(path)
	if err != nil {
		t.Fatalf("ReadFrameFile: %v", err)
	}
	if diff := cmp.Diff(f, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFrameRejectsInconsistent(t *testing.T) {
	tests := map[string]string{
		"syntax":       `{"nodes": [`,
		"dangling":     `{"nodes":[{"id":1,"name":"A"}],"links":[{"id":2,"source":1,"target":2}]}`,
		"duplicate":    `{"nodes":[{"id":1,"name":"A"},{"id":1,"name":"B"}]}`,
		"zero id":      `{"nodes":[{"name":"A"}]}`,
		"unknown exit": `{"nodes":[{"id":1,"name":"A"}],"exit":[9]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader([]byte(in)))
			if err == nil {
				t.Fatal("ReadFrame accepted an invalid frame")
			}
			code := errors.GetCode(err)
			if code != errors.ErrCodeParse && code != errors.ErrCodeInvalidDocument {
				t.Errorf("code = %s", code)
			}
		})
	}
}

func TestFromDiffDepthIgnoresVirtualRoot(t *testing.T) {
	_, single := buildFrame(t, sample)
	_, multi := buildFrame(t, []any{sample, map[string]any{"name": "Linus"}})

	depths := func(f *Frame) map[string]int {
		out := map[string]int{}
		for _, n := range f.Nodes {
			out[n.Name] = n.Depth
		}
		return out
	}
	if diff := cmp.Diff(map[string]int{"Ada": 0, "Grace": 1, "Alan": 1}, depths(single)); diff != "" {
		t.Errorf("single root depths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"Ada": 0, "Grace": 1, "Alan": 1, "Linus": 0}, depths(multi)); diff != "" {
		t.Errorf("virtual root depths (-want +got):\n%s", diff)
	}
}
