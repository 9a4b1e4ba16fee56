package graph

import (
	"github.com/google/uuid"

	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/reconcile"
	"github.com/matzehuels/orgchart/pkg/search"
)

// =============================================================================
// Constants
// =============================================================================

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// =============================================================================
// Frame - Rendered State of One Pass
// =============================================================================

// Frame is the serialized outcome of one render pass: every visible node
// with its start and end position, the links between them, and what
// entered, stayed or left since the previous pass.
//
// Frames are what sinks draw and what `orgchart layout` writes. They carry
// no reference to the live tree, so they can be cached and re-rendered.
type Frame struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id,omitempty"`

	Params    Params `json:"params"`
	ColorMode string `json:"color_mode"`
	Theme     string `json:"theme"`
	Query     string `json:"query,omitempty"`

	Bounds Bounds `json:"bounds"`

	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`

	// Exiting holds nodes and links leaving in this pass. X/Y and Path are
	// their end state (collapsed into the source).
	Exiting      []Node `json:"exiting,omitempty"`
	ExitingLinks []Link `json:"exiting_links,omitempty"`

	Enter  []uint64 `json:"enter"`
	Update []uint64 `json:"update"`
	Exit   []uint64 `json:"exit"`

	Legend color.Legend `json:"legend"`
}

// Params records the layout parameters a frame was computed with.
type Params struct {
	HorizontalSpacing float64 `json:"horizontal_spacing"`
	VerticalSpacing   float64 `json:"vertical_spacing"`
	NodeSize          float64 `json:"node_size"`
	Extent            float64 `json:"extent,omitempty"`
}

// Bounds is the bounding box of the visible nodes.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the extent along the depth axis (Y).
func (b Bounds) Width() float64 { return b.MaxY - b.MinY }

// Height returns the extent along the sibling axis (X).
func (b Bounds) Height() float64 { return b.MaxX - b.MinX }

// Node is a positioned person. X is the sibling axis and Y the depth axis;
// sinks draw Y horizontally.
type Node struct {
	ID         uint64 `json:"id"`
	Parent     uint64 `json:"parent,omitempty"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`

	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`

	Depth   int    `json:"depth"`
	Reports int    `json:"reports"`
	Color   string `json:"color"`
	Match   bool   `json:"match,omitempty"`
	State   string `json:"state"`
}

// Collapsed reports whether the node hides children.
func (n *Node) Collapsed() bool { return n.State == hierarchy.Collapsed.String() }

// Link joins a parent to a child. ID is the child's ID. From and Path are
// SVG path data at the start and end of the pass.
type Link struct {
	ID     uint64 `json:"id"`
	Source uint64 `json:"source"`
	Target uint64 `json:"target"`
	From   string `json:"from,omitempty"`
	Path   string `json:"path"`
}

// IsEmpty reports whether the frame has nothing to draw.
func (f *Frame) IsEmpty() bool {
	return f == nil || len(f.Nodes) == 0
}

// NodeByID returns the visible node with the given id.
func (f *Frame) NodeByID(id uint64) (*Node, bool) {
	for i := range f.Nodes {
		if f.Nodes[i].ID == id {
			return &f.Nodes[i], true
		}
	}
	return nil, false
}

// =============================================================================
// Conversion
// =============================================================================

// Options carry the pass context that is not part of a [reconcile.Diff].
type Options struct {
	DocumentID string
	Params     layout.Params
	Scheme     *color.Scheme
	Matches    search.Result
}

// FromDiff converts a reconciliation pass into a Frame. A nil scheme
// colors every node with the light theme fill.
func FromDiff(d *reconcile.Diff, opts Options) *Frame {
	scheme := opts.Scheme
	if scheme == nil {
		scheme = color.NewScheme(color.Department, nil, color.Options{})
	}

	f := &Frame{
		ID:         uuid.NewString(),
		DocumentID: opts.DocumentID,
		Params: Params{
			HorizontalSpacing: opts.Params.HorizontalSpacing,
			VerticalSpacing:   opts.Params.VerticalSpacing,
			NodeSize:          opts.Params.NodeSize,
			Extent:            opts.Params.Extent,
		},
		ColorMode: scheme.Mode().String(),
		Theme:     ThemeLight,
		Query:     opts.Matches.Query,
		Nodes:     []Node{},
		Links:     []Link{},
		Enter:     []uint64{},
		Update:    []uint64{},
		Exit:      []uint64{},
		Legend:    scheme.Legend(),
	}
	if scheme.Theme() == color.Dark {
		f.Theme = ThemeDark
	}
	if d == nil {
		return f
	}

	from := make(map[hierarchy.ID]reconcile.Point, len(d.Enter)+len(d.Update))
	for _, t := range d.Enter {
		from[t.Node.ID] = t.From
		f.Enter = append(f.Enter, uint64(t.Node.ID))
	}
	for _, t := range d.Update {
		from[t.Node.ID] = t.From
		f.Update = append(f.Update, uint64(t.Node.ID))
	}

	for _, n := range d.Nodes {
		start, ok := from[n.ID]
		if !ok {
			start = reconcile.Point{X: n.X, Y: n.Y}
		}
		f.Nodes = append(f.Nodes, node(n, start, reconcile.Point{X: n.X, Y: n.Y}, scheme, opts.Matches))
	}
	for _, t := range d.Exit {
		f.Exit = append(f.Exit, uint64(t.Node.ID))
		f.Exiting = append(f.Exiting, node(t.Node, t.From, t.To, scheme, opts.Matches))
	}

	for _, l := range d.EnterLinks {
		f.Links = append(f.Links, link(l))
	}
	for _, l := range d.UpdateLinks {
		f.Links = append(f.Links, link(l))
	}
	for _, l := range d.ExitLinks {
		f.ExitingLinks = append(f.ExitingLinks, link(l))
	}

	if len(d.Nodes) > 0 {
		minX, minY, maxX, maxY := layout.Bounds(d.Nodes)
		f.Bounds = Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	return f
}

func node(n *hierarchy.Node, from, to reconcile.Point, scheme *color.Scheme, matches search.Result) Node {
	out := Node{
		ID:         uint64(n.ID),
		Name:       n.Name(),
		Title:      n.Payload.Title(),
		Department: n.Payload.Department(),
		Email:      n.Payload.Email(),
		X:          to.X,
		Y:          to.Y,
		X0:         from.X,
		Y0:         from.Y,
		Depth:      n.Level(),
		Reports:    n.DirectReports,
		Color:      scheme.Fill(n),
		Match:      n.ID != 0 && matches.IDs[n.ID],
		State:      n.State().String(),
	}
	if p := n.Parent(); p != nil && !p.Virtual {
		out.Parent = uint64(p.ID)
	}
	return out
}

func link(l reconcile.Link) Link {
	return Link{
		ID:     uint64(l.ID),
		Source: uint64(l.Parent.ID),
		Target: uint64(l.Child.ID),
		From:   l.From,
		Path:   l.To,
	}
}
