package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/orgchart/pkg/debounce"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	orgio "github.com/matzehuels/orgchart/pkg/io"
	"github.com/matzehuels/orgchart/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMatchStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)

	detailBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

const (
	// chromeLines is the number of lines taken by header and footer.
	chromeLines = 4

	defaultListHeight = 20
	defaultWidth      = 100

	// spacingStep is how far one key press moves the horizontal spacing.
	spacingStep = 10.0
)

// =============================================================================
// Messages
// =============================================================================

type (
	// searchMsg carries a debounced search query.
	searchMsg struct{ query string }

	// resizeMsg arrives once the terminal has stopped resizing.
	resizeMsg struct{}

	// spacingMsg carries a debounced horizontal spacing.
	spacingMsg struct{ value float64 }

	// reloadMsg asks the model to re-read its document from disk.
	reloadMsg struct{}

	watchErrMsg struct{ err error }
)

// =============================================================================
// Key bindings
// =============================================================================

type exploreKeyMap struct {
	Up, Down, PageUp, PageDown, Top, Bottom key.Binding

	Toggle, Expand, Collapse         key.Binding
	ExpandSubtree, CollapseSubtree   key.Binding
	ExpandAll, CollapseAll           key.Binding
	LevelUp, LevelDown               key.Binding
	Wider, Narrower                  key.Binding
	Search, Reveal, Filter, Unfilter key.Binding

	ColorMode, Dark, Details, Copy, Reload key.Binding
	Help, Quit                             key.Binding
}

func defaultExploreKeys() exploreKeyMap {
	return exploreKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Toggle:          key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		Expand:          key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "open")),
		Collapse:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "close")),
		ExpandSubtree:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "open team")),
		CollapseSubtree: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close team")),
		ExpandAll:       key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "open all")),
		CollapseAll:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "close all")),
		LevelUp:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "level up")),
		LevelDown:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "level down")),
		Wider:           key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "wider")),
		Narrower:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "narrower")),

		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reveal:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "reveal matches")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Unfilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filter")),

		ColorMode: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "color mode")),
		Dark:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "theme")),
		Details:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "details")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy details")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Search, k.Filter, k.ColorMode, k.Details, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k exploreKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Toggle, k.Expand, k.Collapse, k.ExpandSubtree, k.CollapseSubtree},
		{k.ExpandAll, k.CollapseAll, k.LevelUp, k.LevelDown, k.Wider, k.Narrower},
		{k.Search, k.Reveal, k.Filter, k.Unfilter},
		{k.ColorMode, k.Dark, k.Details, k.Copy, k.Reload, k.Quit},
	}
}

// =============================================================================
// exploreModel - Interactive tree browser
// =============================================================================

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputFilter
)

// exploreOptions configures an exploreModel.
type exploreOptions struct {
	source string
	path   string // empty unless the document is a local file
	format orgio.Format
	bridge *msgBridge

	searchDebounce time.Duration
	sliderDebounce time.Duration
	resizeDebounce time.Duration
}

type treeRow struct {
	node  *hierarchy.Node
	depth int
}

// exploreModel is the bubbletea model of the explore command. All session
// actions run inside Update; background work reaches it as messages.
type exploreModel struct {
	session *session.Session
	opts    exploreOptions

	keys exploreKeyMap
	help help.Model

	search *debounce.Value[string]
	slider *debounce.Value[float64]
	resize *debounce.Debouncer

	// spacing is the horizontal spacing waiting in the slider debouncer,
	// zero when none is pending.
	spacing float64

	rows   []treeRow
	cursor int
	offset int
	width  int
	height int

	mode  inputMode
	input textinput.Model

	showDetails bool
	details     viewport.Model
	renderer    *glamour.TermRenderer

	status    string
	statusErr bool
}

func newExploreModel(s *session.Session, opts exploreOptions) exploreModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	m := exploreModel{
		session: s,
		opts:    opts,
		keys:    defaultExploreKeys(),
		help:    help.New(),
		search: debounce.NewValue(opts.searchDebounce, func(q string) {
			opts.bridge.Send(searchMsg{query: q})
		}),
		slider: debounce.NewValue(opts.sliderDebounce, func(v float64) {
			opts.bridge.Send(spacingMsg{value: v})
		}),
		resize:  debounce.New(opts.resizeDebounce),
		input:   ti,
		details: viewport.New(0, 0),
	}
	m.rebuild()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.sizeDetails()
		m.scroll()
		bridge := m.opts.bridge
		m.resize.Trigger(func() { bridge.Send(resizeMsg{}) })
		return m, nil

	case resizeMsg:
		m.apply("", m.session.Resize)
		return m, nil

	case searchMsg:
		if m.mode == inputSearch && msg.query != m.input.Value() {
			return m, nil
		}
		m.runSearch(msg.query)
		return m, nil

	case spacingMsg:
		if msg.value != m.spacing {
			return m, nil
		}
		m.spacing = 0
		m.apply(fmt.Sprintf("spacing %g", msg.value), func() (*graph.Frame, error) {
			return m.session.SetParameter(session.ParamHorizontalSpacing, strconv.FormatFloat(msg.value, 'f', -1, 64))
		})
		return m, nil

	case reloadMsg:
		m.reload()
		return m, nil

	case watchErrMsg:
		m.setError(msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m exploreModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "", false

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.search.Cancel()
		m.slider.Cancel()
		m.resize.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.move(m.listHeight())
	case key.Matches(msg, m.keys.Top):
		m.move(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.move(len(m.rows))

	case key.Matches(msg, m.keys.Toggle):
		if n := m.selected(); n != nil && !n.IsLeaf() {
			m.apply("", func() (*graph.Frame, error) { return m.session.Toggle(n.ID) })
		}
	case key.Matches(msg, m.keys.Expand):
		m.expandOrDescend()
	case key.Matches(msg, m.keys.Collapse):
		m.collapseOrAscend()
	case key.Matches(msg, m.keys.ExpandSubtree):
		if n := m.selected(); n != nil {
			m.apply("", func() (*graph.Frame, error) { return m.session.ExpandSubtree(n.ID) })
		}
	case key.Matches(msg, m.keys.CollapseSubtree):
		if n := m.selected(); n != nil {
			m.apply("", func() (*graph.Frame, error) { return m.session.CollapseSubtree(n.ID) })
		}
	case key.Matches(msg, m.keys.ExpandAll):
		m.apply("", m.session.ExpandAll)
	case key.Matches(msg, m.keys.CollapseAll):
		m.apply("", m.session.CollapseAll)
	case key.Matches(msg, m.keys.LevelUp):
		m.setLevel(m.session.Level() + 1)
	case key.Matches(msg, m.keys.LevelDown):
		if m.session.Level() > m.minLevel() {
			m.setLevel(m.session.Level() - 1)
		}
	case key.Matches(msg, m.keys.Wider):
		m.nudgeSpacing(spacingStep)
	case key.Matches(msg, m.keys.Narrower):
		m.nudgeSpacing(-spacingStep)

	case key.Matches(msg, m.keys.Search):
		m.startInput(inputSearch, "search: ", m.session.Query())
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Reveal):
		m.reveal()
	case key.Matches(msg, m.keys.Filter):
		m.startInput(inputFilter, "filter: ", m.session.Criteria().String())
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Unfilter):
		m.apply("filter cleared", m.session.ResetFilter)

	case key.Matches(msg, m.keys.ColorMode):
		next := m.session.ColorMode().Next()
		m.apply("coloring by "+next.Title(), func() (*graph.Frame, error) {
			return m.session.SetParameter(session.ParamColorMode, next.String())
		})
	case key.Matches(msg, m.keys.Dark):
		m.apply("", func() (*graph.Frame, error) { return m.session.SetDarkMode(!m.session.Dark()) })
	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		m.sizeDetails()
	case key.Matches(msg, m.keys.Copy):
		m.copyDetails()
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.scroll()

	case msg.Type == tea.KeyEsc:
		if m.session.Query() != "" {
			m.runSearch("")
		}
	}

	m.refreshDetails()
	return m, nil
}

func (m exploreModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.stopInput()
		if mode == inputSearch {
			m.runSearch(value)
		} else {
			m.runFilter(value)
		}
		return m, nil
	case tea.KeyEsc:
		mode := m.mode
		m.stopInput()
		if mode == inputSearch {
			m.runSearch("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputSearch {
		m.search.Set(m.input.Value())
	}
	return m, cmd
}

// =============================================================================
// Actions
// =============================================================================

// apply runs a session action and rebuilds the rows. Exits are settled
// right away; the terminal view has no transitions.
func (m *exploreModel) apply(status string, action func() (*graph.Frame, error)) bool {
	if _, err := action(); err != nil {
		m.setError(err)
		return false
	}
	m.session.Flush()
	m.rebuild()
	m.refreshDetails()
	if status != "" {
		m.status, m.statusErr = status, false
	}
	return true
}

func (m *exploreModel) setError(err error) {
	m.status, m.statusErr = errors.UserMessage(err), true
}

// minLevel is the lowest level that still shows someone. Level 0 would
// collapse a hidden virtual root and leave the list empty.
func (m exploreModel) minLevel() int {
	if tree := m.session.Tree(); tree != nil && tree.Virtual {
		return 1
	}
	return 0
}

// nudgeSpacing moves the pending horizontal spacing by delta. Presses in
// quick succession reach the session as a single change.
func (m *exploreModel) nudgeSpacing(delta float64) {
	base := m.spacing
	if base == 0 {
		base = m.session.Params().HorizontalSpacing
	}
	next := base + delta
	if next < spacingStep {
		return
	}
	m.spacing = next
	m.status = fmt.Sprintf("spacing %g", next)
	m.slider.Set(next)
}

func (m *exploreModel) setLevel(level int) {
	m.apply(fmt.Sprintf("level %d", level), func() (*graph.Frame, error) {
		return m.session.ExpandToLevel(level)
	})
}

func (m *exploreModel) expandOrDescend() {
	n := m.selected()
	switch {
	case n == nil || n.IsLeaf():
	case n.IsCollapsed():
		m.apply("", func() (*graph.Frame, error) { return m.session.Toggle(n.ID) })
	default:
		m.move(1)
	}
}

func (m *exploreModel) collapseOrAscend() {
	n := m.selected()
	if n == nil {
		return
	}
	if n.IsExpanded() {
		m.apply("", func() (*graph.Frame, error) { return m.session.Toggle(n.ID) })
		return
	}
	if p := n.Parent(); p != nil && !p.Virtual {
		m.selectNode(p.ID, "")
	}
}

func (m *exploreModel) runSearch(query string) {
	m.apply("", func() (*graph.Frame, error) { return m.session.Search(query) })
	if query != "" {
		m.status = fmt.Sprintf("%d visible matches", m.session.Matches().Len())
	}
}

func (m *exploreModel) runFilter(expr string) {
	c, err := session.ParseCriteria(expr)
	if err != nil {
		m.setError(err)
		return
	}
	status := "filter cleared"
	if !c.IsZero() {
		status = "filter " + c.String()
	}
	m.apply(status, func() (*graph.Frame, error) { return m.session.ApplyFilter(c) })
}

// reveal expands hidden matches and jumps to the first one.
func (m *exploreModel) reveal() {
	if m.session.Query() == "" {
		m.status = "nothing to reveal; search with /"
		return
	}
	if !m.apply("", m.session.RevealMatches) {
		return
	}
	matches := m.session.Matches()
	m.status = fmt.Sprintf("%d matches", matches.Len())
	for i, r := range m.rows {
		if matches.Contains(r.node) {
			m.cursor = i
			m.scroll()
			break
		}
	}
}

// reload re-reads the document. A version that fails to read or parse
// leaves the current view in place.
func (m *exploreModel) reload() {
	if m.opts.path == "" {
		m.status, m.statusErr = "reload needs a local file", true
		return
	}
	if _, err := m.session.ReloadFile(m.opts.path, m.opts.format); err != nil {
		m.status, m.statusErr = "reload failed, keeping previous view: "+errors.UserMessage(err), true
		return
	}
	m.session.Flush()
	m.rebuild()
	m.refreshDetails()
	m.status, m.statusErr = "reloaded "+m.opts.path, false
}

func (m *exploreModel) copyDetails() {
	n := m.selected()
	if n == nil {
		return
	}
	rows, err := m.session.Details(n.ID)
	if err != nil {
		m.setError(err)
		return
	}
	if err := clipboard.WriteAll(copyText(n.Name(), rows)); err != nil {
		m.status, m.statusErr = "clipboard unavailable", true
		return
	}
	m.status = "copied details of " + n.Name()
}

func (m *exploreModel) startInput(mode inputMode, prompt, value string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = ""
	if mode == inputFilter {
		m.input.Placeholder = "department=Engineering"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *exploreModel) stopInput() {
	m.search.Cancel()
	m.mode = inputNone
	m.input.Blur()
}

// =============================================================================
// Rows and cursor
// =============================================================================

// rebuild lists the visible people in pre-order and keeps the cursor on the
// same person when possible.
func (m *exploreModel) rebuild() {
	var keepID hierarchy.ID
	var keepName string
	if n := m.selected(); n != nil {
		keepID, keepName = n.ID, n.Name()
	}

	m.rows = nil
	if tree := m.session.Tree(); tree != nil && tree.Root != nil {
		hierarchy.Walk(tree.Root, func(n *hierarchy.Node) bool {
			if n.Virtual {
				return true
			}
			m.rows = append(m.rows, treeRow{node: n, depth: n.Level()})
			return true
		})
	}
	m.selectNode(keepID, keepName)
}

// selectNode moves the cursor to the row with id, or else to the first row
// named name. The cursor is clamped when neither is found.
func (m *exploreModel) selectNode(id hierarchy.ID, name string) {
	found := -1
	for i, r := range m.rows {
		if id != 0 && r.node.ID == id {
			found = i
			break
		}
	}
	if found < 0 && name != "" {
		for i, r := range m.rows {
			if r.node.Name() == name {
				found = i
				break
			}
		}
	}
	if found >= 0 {
		m.cursor = found
	}
	m.move(0)
}

func (m *exploreModel) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
	m.refreshDetails()
}

func (m *exploreModel) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m exploreModel) selected() *hierarchy.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m exploreModel) listHeight() int {
	if m.height == 0 {
		return defaultListHeight
	}
	h := m.height - chromeLines
	if m.help.ShowAll {
		h -= 5
	}
	return max(h, 1)
}

func (m exploreModel) listWidth() int {
	w := m.width
	if w == 0 {
		w = defaultWidth
	}
	if m.showDetails {
		w = w * 3 / 5
	}
	return w
}

// =============================================================================
// Details panel
// =============================================================================

func (m *exploreModel) sizeDetails() {
	if !m.showDetails {
		return
	}
	w := m.width
	if w == 0 {
		w = defaultWidth
	}
	m.details.Width = max(w-m.listWidth()-4, 10)
	m.details.Height = m.listHeight()
	if m.renderer == nil {
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.details.Width),
		)
	}
	m.refreshDetails()
}

func (m *exploreModel) refreshDetails() {
	if !m.showDetails {
		return
	}
	n := m.selected()
	if n == nil {
		m.details.SetContent("")
		return
	}
	rows, err := m.session.Details(n.ID)
	if err != nil {
		m.details.SetContent(err.Error())
		return
	}
	md := detailMarkdown(n.Name(), rows)
	content := md
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			content = out
		}
	}
	m.details.SetContent(content)
	m.details.GotoTop()
}

// detailMarkdown formats a person's details as a markdown table.
func detailMarkdown(name string, rows []session.Detail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", name)
	b.WriteString("| Field | Value |\n| --- | --- |\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(r.Label), escapeCell(r.Value))
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// copyText formats a person's details as "Label: Value" lines.
func copyText(name string, rows []session.Detail) string {
	var b strings.Builder
	b.WriteString("Name: " + name + "\n")
	for _, r := range rows {
		b.WriteString(r.Label + ": " + r.Value + "\n")
	}
	return b.String()
}

// =============================================================================
// View
// =============================================================================

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.legendView())
	b.WriteString("\n")

	list := m.listView()
	if m.showDetails {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, detailBorderStyle.Render(m.details.View()))
	}
	b.WriteString(list)
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m exploreModel) headerView() string {
	s := m.session
	parts := []string{
		fmt.Sprintf("%d people", s.Summary().Nodes),
		fmt.Sprintf("level %d", s.Level()),
		fmt.Sprintf("spacing %g", s.Params().HorizontalSpacing),
		s.ColorMode().Title(),
	}
	if c := s.Criteria(); !c.IsZero() {
		parts = append(parts, "filter "+c.String())
	}
	if q := s.Query(); q != "" {
		parts = append(parts, fmt.Sprintf("%q: %d", q, s.Matches().Len()))
	}
	return StyleTitle.Render(appName) + " " + listDimStyle.Render(m.opts.source) +
		"  " + StyleValue.Render(strings.Join(parts, " · "))
}

// legendView lists the color legend on one line, as far as it fits.
func (m exploreModel) legendView() string {
	scheme := m.session.Scheme()
	if scheme == nil {
		return ""
	}
	legend := scheme.Legend()
	width := m.listWidth()
	if m.showDetails {
		width = m.width
	}
	if width == 0 {
		width = defaultWidth
	}

	used := runewidth.StringWidth(legend.Title) + 2
	out := listDimStyle.Render(legend.Title + ": ")
	for _, item := range legend.Items {
		w := runewidth.StringWidth(item.Label) + 4
		if used+w > width {
			out += listDimStyle.Render("…")
			break
		}
		used += w
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(item.Color)).Render("●") + " " + item.Label + "  "
	}
	return out
}

func (m exploreModel) listView() string {
	h := m.listHeight()
	width := m.listWidth()
	lines := make([]string, 0, h)

	if len(m.rows) == 0 {
		lines = append(lines, listDimStyle.Render("  No people to show"))
	}

	scheme := m.session.Scheme()
	matches := m.session.Matches()
	end := min(m.offset+h, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		n := r.node

		marker := "·"
		switch {
		case n.IsCollapsed():
			marker = "▸"
		case n.IsExpanded():
			marker = "▾"
		}
		prefix := strings.Repeat("  ", r.depth) + marker + " "

		swatch := "●"
		if scheme != nil {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Fill(n))).Render("●")
		}

		name := n.Name()
		title := n.Payload.Title()
		if n.IsCollapsed() {
			title = strings.TrimSpace(fmt.Sprintf("%s (%d)", title, n.DirectReports))
		}

		avail := width - runewidth.StringWidth(prefix) - 4
		name = runewidth.Truncate(name, max(avail, 1), "…")
		avail -= runewidth.StringWidth(name) + 1
		if avail > 1 && title != "" {
			title = runewidth.Truncate(title, avail, "…")
		} else {
			title = ""
		}

		style := listNormalStyle
		switch {
		case i == m.cursor:
			style = listSelectedStyle
		case matches.Contains(n):
			style = listMatchStyle
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := style.Render(cursor+prefix) + swatch + " " + style.Render(name)
		if title != "" {
			line += " " + listDimStyle.Render(title)
		}
		lines = append(lines, line)
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m exploreModel) footerView() string {
	if m.mode != inputNone {
		return m.input.View()
	}
	if m.status != "" {
		if m.statusErr {
			return StyleError.Render(m.status)
		}
		return StyleSuccess.Render(m.status)
	}
	return m.help.View(m.keys)
}
