package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/tree"
)

func exploreFixture(t *testing.T) exploreModel {
	t.Helper()
	root := tree.Node{
		Text: "A",
		Children: []tree.Node{
			{Text: "B"},
			{Text: "C", Children: []tree.Node{
				{Text: "D"},
				{Text: "E"},
			}},
		},
	}
	opts := layout.Options{
		LevelWidth: layout.DefaultLevelWidth,
		NodeHeight: layout.DefaultNodeHeight,
	}
	m, err := newExploreModel(root, "tree.json", opts)
	if err != nil {
		t.Fatalf("newExploreModel() error = %v", err)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(m exploreModel, keys ...string) exploreModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(exploreModel)
	}
	return m
}

func TestExploreNavigation(t *testing.T) {
	m := exploreFixture(t)

	if m.cursor != 0 {
		t.Fatalf("initial cursor = %d, want 0", m.cursor)
	}

	m = update(m, "j", "j")
	if m.cursor != 2 {
		t.Errorf("cursor after jj = %d, want 2", m.cursor)
	}

	m = update(m, "k")
	if m.cursor != 1 {
		t.Errorf("cursor after k = %d, want 1", m.cursor)
	}

	// Cursor clamps at both ends.
	m = update(m, "k", "k", "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	m = update(m, "j", "j", "j", "j", "j", "j")
	if m.cursor != 4 {
		t.Errorf("cursor = %d, want 4", m.cursor)
	}
}

func TestExploreToggle(t *testing.T) {
	m := exploreFixture(t)

	// Visible order is pre-order: A, B, C, D, E. Move to C and collapse.
	m = update(m, "j", "j", " ")
	if len(m.result.Nodes) != 3 {
		t.Errorf("visible nodes after collapse = %d, want 3", len(m.result.Nodes))
	}
	if !m.collapsed.Has("n0-1") {
		t.Error("collapse set should contain n0-1")
	}

	// Toggle again restores the full view.
	m = update(m, " ")
	if len(m.result.Nodes) != 5 {
		t.Errorf("visible nodes after expand = %d, want 5", len(m.result.Nodes))
	}
	if m.collapsed.Len() != 0 {
		t.Errorf("collapse set size = %d, want 0", m.collapsed.Len())
	}
}

func TestExploreToggleLeaf(t *testing.T) {
	m := exploreFixture(t)

	// B is a leaf; toggling it changes nothing.
	m = update(m, "j", " ")
	if len(m.result.Nodes) != 5 {
		t.Errorf("visible nodes = %d, want 5", len(m.result.Nodes))
	}
	if m.collapsed.Len() != 0 {
		t.Error("toggling a leaf should not grow the collapse set")
	}
	if m.status != "leaf node" {
		t.Errorf("status = %q, want %q", m.status, "leaf node")
	}
}

func TestExploreCursorClampAfterCollapse(t *testing.T) {
	m := exploreFixture(t)

	m = update(m, "j", "j", "j", "j")
	if m.cursor != 4 {
		t.Fatalf("cursor = %d, want 4", m.cursor)
	}
	m = update(m, "k", "k", " ")
	if m.cursor >= len(m.result.Nodes) {
		t.Errorf("cursor %d out of range for %d visible nodes", m.cursor, len(m.result.Nodes))
	}
}

func TestExploreView(t *testing.T) {
	m := exploreFixture(t)
	view := m.View()

	for _, label := range []string{"A", "B", "C", "D", "E"} {
		if !strings.Contains(view, label) {
			t.Errorf("view missing label %q", label)
		}
	}
	if !strings.Contains(view, "[1/5 visible]") {
		t.Error("view missing visibility footer")
	}

	m = update(m, "j", "j", " ")
	view = m.View()
	if strings.Contains(view, "D") || strings.Contains(view, "E") {
		t.Error("collapsed children should not appear in view")
	}
	if !strings.Contains(view, "[3/3 visible]") {
		t.Error("view missing updated footer")
	}
}
