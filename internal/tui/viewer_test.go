package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

func sample() outline.Node {
	return outline.Node{ID: "a", Label: "Root", Children: []outline.Node{
		{ID: "b", Label: "Branch", Children: []outline.Node{{ID: "c", Label: "Leaf C"}}},
		{ID: "d", Label: "Leaf D"},
	}}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func visibleIDs(m Model) []string {
	var ids []string
	for _, n := range m.view.Graph.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestNew(t *testing.T) {
	m, err := New(sample(), "")
	require.NoError(t, err)
	assert.Equal(t, "Root", m.title)
	assert.Equal(t, []string{"a", "b", "c", "d"}, visibleIDs(m))

	out := m.View()
	assert.Contains(t, out, "Root")
	assert.Contains(t, out, "Leaf C")
	assert.Contains(t, out, "(600, 240)")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(outline.Node{ID: "", Label: "x"}, "t")
	assert.Error(t, err)
}

func TestCursorMovement(t *testing.T) {
	m, err := New(sample(), "t")
	require.NoError(t, err)

	m = press(t, m, up)
	assert.Equal(t, 0, m.cursor)
	m = press(t, m, down, runes("j"), down, down, down)
	assert.Equal(t, 3, m.cursor)
	m = press(t, m, runes("k"))
	assert.Equal(t, 2, m.cursor)
	m = press(t, m, runes("g"))
	assert.Equal(t, 0, m.cursor)
	m = press(t, m, runes("G"))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "d", sel.ID)
}

func TestActivateToggles(t *testing.T) {
	m, err := New(sample(), "t")
	require.NoError(t, err)

	m = press(t, m, down, enter)
	assert.Equal(t, []string{"a", "b", "d"}, visibleIDs(m))
	assert.Equal(t, "Clicked: Branch", m.status)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "Clicked: Branch")
	assert.Contains(t, m.View(), "▸")

	m = press(t, m, space)
	assert.Equal(t, []string{"a", "b", "c", "d"}, visibleIDs(m))
}

func TestActivateLeafKeepsState(t *testing.T) {
	m, err := New(sample(), "t")
	require.NoError(t, err)

	m = press(t, m, runes("G"), enter)
	assert.Equal(t, []string{"a", "b", "c", "d"}, visibleIDs(m))
	assert.Equal(t, "Clicked: Leaf D", m.status)
}

func TestCollapseRootThenExpandAll(t *testing.T) {
	m, err := New(sample(), "t")
	require.NoError(t, err)

	m = press(t, m, enter)
	assert.Equal(t, []string{"a"}, visibleIDs(m))
	m = press(t, m, runes("r"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, visibleIDs(m))
}

func TestEmptyOutline(t *testing.T) {
	m, err := New(outline.Node{ID: "root", Label: "Nothing"}, "")
	require.NoError(t, err)
	assert.Contains(t, m.View(), EmptyMessage)

	m = press(t, m, enter, down)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestScrolling(t *testing.T) {
	m, err := New(sample(), "t")
	require.NoError(t, err)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	m = updated.(Model)

	assert.Equal(t, 2, m.rows())
	m = press(t, m, down, down, down)
	assert.Equal(t, 2, m.offset)
	out := m.View()
	assert.Contains(t, out, "Leaf D")
	assert.NotContains(t, out, "Branch")
}

func TestQuit(t *testing.T) {
	m, err := New(sample(), "t")
	require.NoError(t, err)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
