// Package tui is an interactive terminal viewer for a mind map. Each visible
// node is one line, indented by its layout column.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thywilljoshua/pdf-mindmap/internal/mindmap"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// EmptyMessage is shown for an outline with nothing under its root.
const EmptyMessage = "No Mind Map Yet"

// clickLog is shared by every copy of a Model so the controller's click
// handler can report into it.
type clickLog struct {
	last *outline.Node
}

type Model struct {
	ctrl   *mindmap.Controller
	clicks *clickLog
	view   mindmap.View
	title  string

	cursor int
	// offset is the first visible line when the map is taller than the screen.
	offset int
	width  int
	height int
	status string

	titleStyle  lipgloss.Style
	cursorStyle lipgloss.Style
	markerStyle lipgloss.Style
	coordStyle  lipgloss.Style
	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style
	emptyStyle  lipgloss.Style
}

// New builds a viewer over root, fully expanded.
func New(root outline.Node, title string) (Model, error) {
	clicks := &clickLog{}
	ctrl, err := mindmap.NewController(root, mindmap.WithClickHandler(func(n outline.Node) {
		clicks.last = &n
	}))
	if err != nil {
		return Model{}, err
	}
	if title == "" {
		title = root.Label
	}
	return Model{
		ctrl:   ctrl,
		clicks: clicks,
		view:   ctrl.View(),
		title:  title,

		titleStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		cursorStyle: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")),
		markerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		coordStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		helpStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		emptyStyle: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 4),
	}, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scroll()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.view.Graph.Nodes)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.view.Graph.Nodes)-1, 0)
		case "enter", " ", "space":
			m.activate()
		case "r":
			// Back to fully expanded.
			_ = m.ctrl.Initialize(m.ctrl.Root())
			m.view = m.ctrl.View()
			m.status = "Expanded all"
		}
		m.scroll()
	}
	return m, nil
}

func (m *Model) activate() {
	if m.view.Empty || m.cursor >= len(m.view.Graph.Nodes) {
		return
	}
	selected := m.view.Graph.Nodes[m.cursor]
	m.clicks.last = nil
	m.view = m.ctrl.HandleActivation(selected.ID, selected.HasChildren)
	if n := m.clicks.last; n != nil {
		m.status = "Clicked: " + n.Label
	}
	// Keep the cursor on the activated node; it never disappears itself.
	for i, n := range m.view.Graph.Nodes {
		if n.ID == selected.ID {
			m.cursor = i
			break
		}
	}
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	rows := m.rows()
	if rows <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// rows is how many node lines fit, or 0 when the height is unknown.
func (m Model) rows() int {
	if m.height == 0 {
		return 0
	}
	// title, blank, status, help
	return max(m.height-4, 1)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.view.Empty {
		b.WriteString(m.emptyStyle.Render(EmptyMessage))
		b.WriteString("\n\n")
		b.WriteString(m.helpStyle.Render("q quit"))
		return b.String()
	}

	nodes := m.view.Graph.Nodes
	end := len(nodes)
	if rows := m.rows(); rows > 0 {
		end = min(m.offset+rows, len(nodes))
	}
	for i := m.offset; i < end; i++ {
		line := m.renderNode(nodes[i])
		if i == m.cursor {
			line = m.cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑/↓ move • enter toggle • r expand all • q quit"))
	return b.String()
}

func (m Model) renderNode(n mindmap.PositionedNode) string {
	column := int(n.Position.X) / mindmap.ColumnWidth
	marker := "•"
	switch {
	case n.HasChildren && n.Expanded:
		marker = "▾"
	case n.HasChildren:
		marker = "▸"
	}
	coords := fmt.Sprintf("(%g, %g)", n.Position.X, n.Position.Y)
	return strings.Repeat("  ", column) + m.markerStyle.Render(marker) + " " + n.Label + " " + m.coordStyle.Render(coords)
}

// Selected returns the node under the cursor.
func (m Model) Selected() (mindmap.PositionedNode, bool) {
	if m.view.Empty || m.cursor >= len(m.view.Graph.Nodes) {
		return mindmap.PositionedNode{}, false
	}
	return m.view.Graph.Nodes[m.cursor], true
}

// Run shows root full screen until the user quits.
func Run(root outline.Node, title string) error {
	m, err := New(root, title)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
