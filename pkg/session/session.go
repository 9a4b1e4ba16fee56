package session

import (
	stderrors "errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/filter"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/metrics"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/reconcile"
	"github.com/matzehuels/orgchart/pkg/search"
)

// ErrNoDocument is returned by actions that need a loaded document.
var ErrNoDocument = stderrors.New("no document loaded")

// DefaultLevel is the initial expansion depth.
const DefaultLevel = 1

// Parameter names accepted by [Session.SetParameter].
const (
	ParamHorizontalSpacing = "horizontalSpacing"
	ParamVerticalSpacing   = "verticalSpacing"
	ParamNodeSize          = "nodeSize"
	ParamExtent            = "extent"
	ParamColorMode         = "colorMode"
	ParamSearchQuery       = "searchQuery"
	ParamDepartmentFilter  = "departmentFilter"
	ParamLevel             = "level"
	ParamDarkMode          = "darkMode"
)

// Session is the state of one interactive view: the original document, the
// tree derived from it, the view parameters and the engines that turn
// actions into frames. A Session is not safe for concurrent use; callers
// run actions on one goroutine.
type Session struct {
	logger *log.Logger

	documentID string
	original   any
	tree       *hierarchy.Tree
	criteria   Criteria

	params       layout.Params
	level        int
	mode         color.Mode
	dark         bool
	licenseField string

	index   search.Index
	query   string
	matches search.Result

	layout layout.Engine
	engine reconcile.Engine
	scheme *color.Scheme
	frame  *graph.Frame
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Sessions log to io.Discard by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithParams sets the layout parameters. Zero fields take defaults.
func WithParams(p layout.Params) Option {
	return func(s *Session) { s.params = p }
}

// WithLevel sets the expansion depth applied on every load.
func WithLevel(level int) Option {
	return func(s *Session) { s.level = level }
}

// WithColorMode sets the initial color mode.
func WithColorMode(m color.Mode) Option {
	return func(s *Session) { s.mode = m }
}

// WithDarkMode selects the dark theme.
func WithDarkMode(dark bool) Option {
	return func(s *Session) { s.dark = dark }
}

// WithLicenseField sets the payload key read by the license color mode.
func WithLicenseField(field string) Option {
	return func(s *Session) { s.licenseField = field }
}

// WithSearchFields sets the fields searched by [Session.Search].
func WithSearchFields(fields ...string) Option {
	return func(s *Session) { s.index = search.New(fields...) }
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		logger: log.New(io.Discard),
		level:  DefaultLevel,
		mode:   color.Department,
		index:  search.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.params.SetDefaults()
	return s
}

// =============================================================================
// Loading
// =============================================================================

// Load replaces the document and renders it from scratch. On error the
// session is left untouched. doc is kept as the original snapshot and is
// never modified.
func (s *Session) Load(doc any) (*graph.Frame, error) {
	return s.swap(doc, "load")
}

// Reload is Load for a changed version of the same document. It resets
// the reconciliation state, so every node of the new tree enters.
func (s *Session) Reload(doc any) (*graph.Frame, error) {
	return s.swap(doc, "reload")
}

func (s *Session) swap(doc any, action string) (*graph.Frame, error) {
	start := time.Now()
	tree, err := s.derive(doc, s.criteria)
	if err != nil {
		return nil, err
	}

	s.documentID = uuid.NewString()
	s.original = doc
	s.tree = tree
	s.engine.Reset()

	for _, w := range tree.Warnings {
		s.logger.Debug("document shape", "path", w.Path, "warning", w.Message)
	}
	count := hierarchy.Count(tree.Root)
	s.logger.Debug("document loaded", "id", s.documentID, "nodes", count, "warnings", len(tree.Warnings), "duration", time.Since(start))
	observability.Session().OnReload(s.documentID, count)
	return s.pass(nil, action), nil
}

// derive builds the tree for doc under criteria and applies the initial
// expansion.
func (s *Session) derive(doc any, c Criteria) (*hierarchy.Tree, error) {
	src := doc
	if !c.IsZero() {
		src = filter.Apply(doc, c.Predicate())
	}
	tree, err := hierarchy.Build(src)
	if err != nil {
		return nil, err
	}
	metrics.ComputeDirectReports(tree.Root)
	if c.IsZero() {
		hierarchy.ExpandToLevel(tree.Root, s.level)
	} else {
		hierarchy.ExpandAll(tree.Root)
	}
	return tree, nil
}

// =============================================================================
// Tree actions
// =============================================================================

// Toggle collapses or expands the node with the given id.
func (s *Session) Toggle(id hierarchy.ID) (*graph.Frame, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}
	hierarchy.Toggle(n)
	return s.pass(n, "toggle"), nil
}

// ExpandAll opens the whole tree.
func (s *Session) ExpandAll() (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	hierarchy.ExpandAll(s.tree.Root)
	return s.pass(s.tree.Root, "expandAll"), nil
}

// CollapseAll closes every node below the root.
func (s *Session) CollapseAll() (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	hierarchy.CollapseAll(s.tree.Root)
	return s.pass(s.tree.Root, "collapseAll"), nil
}

// ExpandToLevel shows every node above level and collapses the rest. The
// level is also used for subsequent loads.
func (s *Session) ExpandToLevel(level int) (*graph.Frame, error) {
	if err := errors.ValidateLevel(level); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.level = level
	hierarchy.ExpandToLevel(s.tree.Root, level)
	return s.pass(s.tree.Root, "expandToLevel"), nil
}

// ExpandSubtree opens the node with the given id and all its descendants.
func (s *Session) ExpandSubtree(id hierarchy.ID) (*graph.Frame, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}
	hierarchy.ExpandAll(n)
	return s.pass(n, "expandSubtree"), nil
}

// CollapseSubtree closes every descendant of the node with the given id,
// leaving its direct reports visible.
func (s *Session) CollapseSubtree(id hierarchy.ID) (*graph.Frame, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}
	hierarchy.CollapseAll(n)
	return s.pass(n, "collapseSubtree"), nil
}

// =============================================================================
// Derived views
// =============================================================================

// ApplyFilter rebuilds the tree from the original document keeping only
// matching people and their managers. The filtered tree is fully expanded.
// Zero criteria are the same as [Session.ResetFilter].
func (s *Session) ApplyFilter(c Criteria) (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tree, err := s.derive(s.original, c)
	if err != nil {
		return nil, err
	}
	s.criteria = c
	s.tree = tree
	s.logger.Debug("filter applied", "criteria", c.String(), "nodes", hierarchy.Count(tree.Root))
	return s.pass(tree.Root, "filter"), nil
}

// ResetFilter rebuilds the tree from the original document.
func (s *Session) ResetFilter() (*graph.Frame, error) {
	return s.ApplyFilter(Criteria{})
}

// Search highlights visible nodes matching query. It never changes the
// tree shape; an empty query clears the highlight.
func (s *Session) Search(query string) (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.query = query
	return s.pass(s.tree.Root, "search"), nil
}

// RevealMatches expands the managers of every match hidden in a collapsed
// subtree, then highlights them.
func (s *Session) RevealMatches() (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	search.Reveal(s.index.MatchesAll(s.tree.Root, s.query))
	return s.pass(s.tree.Root, "reveal"), nil
}

// Resize discards the reconciliation state and renders the current tree
// from scratch, as after a change of the viewport.
func (s *Session) Resize() (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.engine.Reset()
	return s.pass(nil, "resize"), nil
}

// SetDarkMode switches the theme.
func (s *Session) SetDarkMode(dark bool) (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.dark = dark
	return s.pass(s.tree.Root, "theme"), nil
}

// SetParameter changes one view parameter by name and re-renders. Values
// are parsed from their string form, as they arrive from a form control.
func (s *Session) SetParameter(name, value string) (*graph.Frame, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch name {
	case ParamHorizontalSpacing, ParamVerticalSpacing, ParamNodeSize, ParamExtent:
		v, err := parseFloat(name, value)
		if err != nil {
			return nil, err
		}
		p := s.params
		switch name {
		case ParamHorizontalSpacing:
			p.HorizontalSpacing = v
		case ParamVerticalSpacing:
			p.VerticalSpacing = v
		case ParamNodeSize:
			p.NodeSize = v
		case ParamExtent:
			p.Extent = v
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		s.params = p
		return s.pass(s.tree.Root, name), nil
	case ParamColorMode:
		m, err := color.ParseMode(value)
		if err != nil {
			return nil, err
		}
		s.mode = m
		return s.pass(s.tree.Root, name), nil
	case ParamSearchQuery:
		return s.Search(value)
	case ParamDepartmentFilter:
		c := s.criteria
		c.Department = value
		return s.ApplyFilter(c)
	case ParamLevel:
		level, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "level must be an integer, got %q", value)
		}
		return s.ExpandToLevel(level)
	case ParamDarkMode:
		dark, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "darkMode must be true or false, got %q", value)
		}
		return s.SetDarkMode(dark)
	default:
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown parameter %q", name)
	}
}

func parseFloat(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidParameter, err, "%s must be a number, got %q", name, value)
	}
	return v, nil
}

// =============================================================================
// Exit lifecycle
// =============================================================================

// Complete reports that the exit transitions of ids have finished.
func (s *Session) Complete(ids ...hierarchy.ID) { s.engine.Complete(ids...) }

// Flush drops every pending exit, as when transitions are disabled.
func (s *Session) Flush() { s.engine.Flush() }

// Pending returns the exits still awaiting [Session.Complete].
func (s *Session) Pending() []hierarchy.ID { return s.engine.Pending() }

// =============================================================================
// Pass
// =============================================================================

// pass lays out the tree, reconciles it against the previous pass and
// converts the result into a frame.
func (s *Session) pass(source *hierarchy.Node, action string) *graph.Frame {
	start := time.Now()
	root := s.tree.Root

	nodes := s.layout.Assign(root, s.params)
	diff := s.engine.Diff(nodes, source)

	s.matches = s.index.Matches(root, s.query)
	s.scheme = color.NewScheme(s.mode, root, color.Options{Dark: s.dark, LicenseField: s.licenseField})
	s.frame = graph.FromDiff(diff, graph.Options{
		DocumentID: s.documentID,
		Params:     s.params,
		Scheme:     s.scheme,
		Matches:    s.matches,
	})

	dur := time.Since(start)
	s.logger.Debug("pass", "action", action, "nodes", len(nodes),
		"enter", len(diff.Enter), "update", len(diff.Update), "exit", len(diff.Exit), "duration", dur)
	observability.Session().OnPass(action, len(diff.Enter), len(diff.Update), len(diff.Exit), dur)
	return s.frame
}

func (s *Session) ready() error {
	if s.tree == nil {
		return ErrNoDocument
	}
	return nil
}

func (s *Session) node(id hierarchy.ID) (*hierarchy.Node, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	n := hierarchy.Find(s.tree.Root, id)
	if n == nil || id == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no node with id %d", id)
	}
	return n, nil
}

// =============================================================================
// Accessors
// =============================================================================

// DocumentID identifies the loaded document. It changes on every load.
func (s *Session) DocumentID() string { return s.documentID }

// Original returns the document as loaded, before filtering.
func (s *Session) Original() any { return s.original }

// Tree returns the current (possibly filtered) tree, or nil.
func (s *Session) Tree() *hierarchy.Tree { return s.tree }

// Frame returns the frame of the last pass, or nil.
func (s *Session) Frame() *graph.Frame { return s.frame }

// Node returns the node with the given id.
func (s *Session) Node(id hierarchy.ID) (*hierarchy.Node, error) { return s.node(id) }

// Params returns the layout parameters.
func (s *Session) Params() layout.Params { return s.params }

// Level returns the expansion depth applied on load.
func (s *Session) Level() int { return s.level }

// ColorMode returns the active color mode.
func (s *Session) ColorMode() color.Mode { return s.mode }

// Scheme returns the color scheme of the last pass.
func (s *Session) Scheme() *color.Scheme { return s.scheme }

// Dark reports whether the dark theme is active.
func (s *Session) Dark() bool { return s.dark }

// Query returns the active search query.
func (s *Session) Query() string { return s.query }

// Matches returns the search matches of the last pass.
func (s *Session) Matches() search.Result { return s.matches }

// Criteria returns the active filter.
func (s *Session) Criteria() Criteria { return s.criteria }

// Summary returns statistics for the current tree.
func (s *Session) Summary() metrics.Summary {
	if s.tree == nil {
		return metrics.Summary{}
	}
	return metrics.Summarize(s.tree.Root)
}
