package cli

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/orgchart/pkg/color"
	orgio "github.com/matzehuels/orgchart/pkg/io"
	"github.com/matzehuels/orgchart/pkg/session"
)

func decodeDoc(t *testing.T, src string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	return doc
}

func newTestExplore(t *testing.T, src string, opts exploreOptions) exploreModel {
	t.Helper()
	s := session.New(session.WithLevel(1))
	if _, err := s.Load(decodeDoc(t, src)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return newExploreModel(s, opts)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(m exploreModel, msgs ...tea.Msg) exploreModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(exploreModel)
	}
	return m
}

func press(m exploreModel, keys ...string) exploreModel {
	for _, k := range keys {
		m = send(m, keyMsg(k))
	}
	return m
}

func rowNames(m exploreModel) []string {
	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = r.node.Name()
	}
	return names
}

func wantRows(t *testing.T, m exploreModel, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, rowNames(m)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExploreInitialRows(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})
	wantRows(t, m, "Ada", "Grace", "Alan")
	if m.selected().Name() != "Ada" {
		t.Errorf("selected = %s, want Ada", m.selected().Name())
	}
}

func TestExploreToggleKeepsCursor(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})

	m = press(m, "j", "enter")
	wantRows(t, m, "Ada", "Grace", "Linus", "Ken", "Alan")
	if got := m.selected().Name(); got != "Grace" {
		t.Errorf("selected after toggle = %s, want Grace", got)
	}

	m = press(m, "enter")
	wantRows(t, m, "Ada", "Grace", "Alan")
}

func TestExploreExpandAndCollapseKeys(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})

	m = press(m, "l")
	if got := m.selected().Name(); got != "Grace" {
		t.Errorf("l on an open manager should move to the first report, got %s", got)
	}
	m = press(m, "l")
	wantRows(t, m, "Ada", "Grace", "Linus", "Ken", "Alan")

	m = press(m, "j", "h")
	if got := m.selected().Name(); got != "Grace" {
		t.Errorf("h on a leaf should move to the manager, got %s", got)
	}
	m = press(m, "h")
	wantRows(t, m, "Ada", "Grace", "Alan")
}

func TestExploreBulkActions(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})

	m = press(m, "E")
	wantRows(t, m, "Ada", "Grace", "Linus", "Ken", "Alan", "Joan")

	m = press(m, "C")
	wantRows(t, m, "Ada", "Grace", "Alan")

	m = press(m, "-")
	wantRows(t, m, "Ada")
	if m.session.Level() != 0 {
		t.Errorf("Level = %d, want 0", m.session.Level())
	}

	m = press(m, "+", "+")
	wantRows(t, m, "Ada", "Grace", "Linus", "Ken", "Alan", "Joan")

	m = press(m, "G")
	if got := m.selected().Name(); got != "Joan" {
		t.Errorf("G should select the last row, got %s", got)
	}
	m = press(m, "g")
	if got := m.selected().Name(); got != "Ada" {
		t.Errorf("g should select the first row, got %s", got)
	}
}

func TestExploreSearchAndReveal(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})

	m = press(m, "/", "joan", "enter")
	if m.mode != inputNone {
		t.Fatal("enter should leave the search input")
	}
	if m.session.Query() != "joan" {
		t.Errorf("Query = %q, want joan", m.session.Query())
	}
	if m.session.Matches().Len() != 0 {
		t.Error("search must not reveal hidden people")
	}

	m = press(m, "n")
	wantRows(t, m, "Ada", "Grace", "Alan", "Joan")
	if got := m.selected().Name(); got != "Joan" {
		t.Errorf("reveal should select the first match, got %s", got)
	}

	m = press(m, "esc")
	if m.session.Query() != "" {
		t.Errorf("esc should clear the search, query = %q", m.session.Query())
	}
}

func TestExploreIgnoresStaleSearch(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})

	m = press(m, "/", "gra")
	m = send(m, searchMsg{query: "g"})
	if m.session.Query() != "" {
		t.Errorf("stale query applied: %q", m.session.Query())
	}

	m = send(m, searchMsg{query: "gra"})
	if m.session.Query() != "gra" {
		t.Errorf("Query = %q, want gra", m.session.Query())
	}
	if m.session.Matches().Len() != 1 {
		t.Errorf("matches = %d, want 1", m.session.Matches().Len())
	}
}

func TestExploreFilter(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})

	m = press(m, "f", "department=Research", "enter")
	wantRows(t, m, "Ada", "Alan", "Joan")
	if m.session.Criteria().IsZero() {
		t.Error("filter should be active")
	}

	m = press(m, "F")
	wantRows(t, m, "Ada", "Grace", "Alan")
}

func TestExploreCyclesColorMode(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})

	m = press(m, "m")
	if got, want := m.session.ColorMode(), color.Department.Next(); got != want {
		t.Errorf("ColorMode = %v, want %v", got, want)
	}

	dark := m.session.Dark()
	m = press(m, "d")
	if m.session.Dark() == dark {
		t.Error("d should toggle the theme")
	}
}

func TestExploreHidesVirtualRoot(t *testing.T) {
	m := newTestExplore(t, `[{"name": "Ada"}, {"name": "Bob", "children": [{"name": "Cy"}]}]`, exploreOptions{})

	wantRows(t, m, "Ada", "Bob")
	for _, r := range m.rows {
		if r.depth != 0 {
			t.Errorf("%s depth = %d, want 0", r.node.Name(), r.depth)
		}
	}

	m = press(m, "j", "enter")
	wantRows(t, m, "Ada", "Bob", "Cy")
	m = press(m, "j", "h")
	if got := m.selected().Name(); got != "Bob" {
		t.Errorf("h on a leaf should move to the manager, got %s", got)
	}
	m = press(m, "h", "h")
	wantRows(t, m, "Ada", "Bob")
	if got := m.selected().Name(); got != "Bob" {
		t.Errorf("h on a closed top-level person should stay, got %s", got)
	}
}

func TestExploreLevelDownKeepsTopLevelVisible(t *testing.T) {
	m := newTestExplore(t, `[{"name": "Ada"}, {"name": "Bob", "children": [{"name": "Cy"}]}]`, exploreOptions{})

	m = press(m, "-", "-")
	if got := m.session.Level(); got != 1 {
		t.Errorf("Level = %d, want 1", got)
	}
	wantRows(t, m, "Ada", "Bob")
}

func TestExploreSpacingAppliesLastValue(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})
	base := m.session.Params().HorizontalSpacing

	m = press(m, "]", "]", "[")
	if got := m.session.Params().HorizontalSpacing; got != base {
		t.Fatalf("spacing changed before the debounce fired: %v", got)
	}

	m = send(m, spacingMsg{value: base + 20})
	if got := m.session.Params().HorizontalSpacing; got != base {
		t.Errorf("stale spacing applied: %v", got)
	}

	m = send(m, spacingMsg{value: base + 10})
	if got := m.session.Params().HorizontalSpacing; got != base+10 {
		t.Errorf("HorizontalSpacing = %v, want %v", got, base+10)
	}
	if m.spacing != 0 {
		t.Errorf("pending spacing = %v, want none", m.spacing)
	}
}

func TestExploreReload(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "org.json", sampleDoc)

	s := session.New(session.WithLevel(1))
	if _, err := s.LoadFile(path, orgio.FormatAuto); err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	m := newExploreModel(s, exploreOptions{path: path, format: orgio.FormatAuto})

	writeDoc(t, dir, "org.json", strings.Replace(sampleDoc, `"Alan"`, `"Katherine"`, 1))
	m = send(m, reloadMsg{})
	wantRows(t, m, "Ada", "Grace", "Katherine")
	if m.statusErr {
		t.Errorf("unexpected error status %q", m.status)
	}

	writeDoc(t, dir, "org.json", `{"name": `)
	m = send(m, reloadMsg{})
	wantRows(t, m, "Ada", "Grace", "Katherine")
	if !m.statusErr {
		t.Error("a broken document should report an error")
	}
}

func TestExploreReloadNeedsFile(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})
	m = press(m, "r")
	if !m.statusErr {
		t.Error("reload without a file should report an error")
	}
}

func TestExploreView(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{source: filepath.Join("data", "org.json")})
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 24})

	view := m.View()
	for _, want := range []string{"Ada", "Grace", "Alan", "6 people", "org.json"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines > 24 {
		t.Errorf("view has %d lines, want at most 24", lines)
	}

	m = press(m, "tab")
	if !m.showDetails {
		t.Error("tab should open the details panel")
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplore(t, sampleDoc, exploreOptions{})
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestDetailMarkdown(t *testing.T) {
	got := detailMarkdown("Ada", []session.Detail{
		{Label: "title", Value: "CEO | Founder"},
		{Label: "note", Value: "line one\nline two"},
	})
	want := "## Ada\n\n| Field | Value |\n| --- | --- |\n" +
		"| title | CEO \\| Founder |\n" +
		"| note | line one line two |\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("detailMarkdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyText(t *testing.T) {
	got := copyText("Ada", []session.Detail{{Label: "Level", Value: "0"}})
	if got != "Name: Ada\nLevel: 0\n" {
		t.Errorf("copyText() = %q", got)
	}
}
