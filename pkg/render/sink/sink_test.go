package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/session"
)

func sampleFrame(t *testing.T, opts ...session.Option) *graph.Frame {
	t.Helper()
	doc := map[string]any{
		"name": "Ada <CEO>", "title": "Chief", "department": "Exec",
		"children": []any{
			map[string]any{"name": "Grace", "department": "Engineering"},
			map[string]any{"name": "Alan", "department": "Research"},
		},
	}
	s := session.New(opts...)
	if _, err := s.Load(doc); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Search("grace"); err != nil {
		t.Fatal(err)
	}
	return s.Frame()
}

func TestRenderSVG(t *testing.T) {
	f := sampleFrame(t)
	out := string(RenderSVG(f, WithTitle("Acme")))

	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Errorf("missing xml prolog: %.40q", out)
	}
	for _, want := range []string{
		"<title>Acme</title>",
		"Ada &lt;CEO&gt;",
		"Grace",
		color.Light.Highlight,
		`class="link"`,
		"Departments",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(out, `class="node"`); n != 3 {
		t.Errorf("%d nodes drawn, want 3", n)
	}
	if n := strings.Count(out, `class="link"`); n != 2 {
		t.Errorf("%d links drawn, want 2", n)
	}
}

func TestRenderSVGDarkWithoutLegend(t *testing.T) {
	f := sampleFrame(t, session.WithDarkMode(true))
	out := string(RenderSVG(f, WithoutLegend()))
	if !strings.Contains(out, color.Dark.Background) {
		t.Error("dark background not used")
	}
	if strings.Contains(out, `id="legend"`) {
		t.Error("legend drawn despite WithoutLegend")
	}
}

func TestRenderSVGEmptyFrame(t *testing.T) {
	out := string(RenderSVG(graph.FromDiff(nil, graph.Options{})))
	if !strings.Contains(out, "No data") {
		t.Error("empty frame should render the placeholder")
	}
}

func TestRenderPNG(t *testing.T) {
	f := sampleFrame(t)
	data, err := RenderPNG(f, WithMinSize(800, 600), WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() < 1600 || b.Dy() < 1200 {
		t.Errorf("image %dx%d, want at least 1600x1200", b.Dx(), b.Dy())
	}
}

func TestRenderJSON(t *testing.T) {
	f := sampleFrame(t)
	data, err := RenderJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	back, err := graph.UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}
	if len(back.Nodes) != 3 || back.ID != f.ID {
		t.Errorf("round trip lost data: %d nodes, id %q", len(back.Nodes), back.ID)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Grace Hopper", 8); got != "Grace H…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Ada", 8); got != "Ada" {
		t.Errorf("truncate = %q", got)
	}
}
