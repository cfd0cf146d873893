package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/render/sink"
	"github.com/arbor-viz/arbor/pkg/tree"
	"github.com/arbor-viz/arbor/pkg/tree/collapse"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// exploreModel - Interactive tree exploration
// =============================================================================

// exploreModel is the bubbletea model for the tree explorer. It keeps the
// tree immutable and all view state in a collapse set; every toggle swaps
// the set for a new one and recomputes the layout from scratch.
type exploreModel struct {
	root      tree.Node
	inputPath string
	opts      layout.Options

	collapsed collapse.Set
	result    layout.Result

	cursor  int
	height  int
	offset  int
	status  string
	written string
}

func newExploreModel(root tree.Node, inputPath string, opts layout.Options) (exploreModel, error) {
	m := exploreModel{
		root:      root,
		inputPath: inputPath,
		opts:      opts,
		height:    20,
	}
	if err := m.recompute(); err != nil {
		return exploreModel{}, err
	}
	return m, nil
}

// recompute refreshes the layout for the current collapse set. The node
// slice is in pre-order, which is exactly the drawing order of the list.
func (m *exploreModel) recompute() error {
	res, err := layout.Compute(m.root, m.collapsed, m.opts)
	if err != nil {
		return err
	}
	m.result = res
	if m.cursor >= len(res.Nodes) {
		m.cursor = len(res.Nodes) - 1
	}
	return nil
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case "down", "j":
			if m.cursor < len(m.result.Nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}

		case " ", "enter":
			node := m.result.Nodes[m.cursor]
			if !node.HasChildren {
				m.status = "leaf node"
				return m, nil
			}
			m.collapsed = collapse.Toggle(m.collapsed, node.ID)
			if err := m.recompute(); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.status = ""

		case "w":
			path := strings.TrimSuffix(m.inputPath, filepath.Ext(m.inputPath)) + ".svg"
			if err := os.WriteFile(path, sink.RenderSVG(m.result), 0644); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.written = path
			m.status = "wrote " + path
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("arbor explore"))
	b.WriteString("  ")
	b.WriteString(StyleHighlight.Render(filepath.Base(m.inputPath)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣/⏎ toggle  w write svg  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.result.Nodes) {
		end = len(m.result.Nodes)
	}

	for i := m.offset; i < end; i++ {
		n := m.result.Nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := "  "
		switch {
		case n.Collapsed:
			marker = "+ "
		case n.HasChildren:
			marker = "- "
		}

		line := cursor + strings.Repeat("  ", n.Level) + marker + n.Label

		style := listNormalStyle
		if i == m.cursor {
			style = listSelectedStyle
		} else if n.Collapsed {
			style = listDimStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d visible]", m.cursor+1, len(m.result.Nodes))))
	if m.status != "" {
		statusStyle := StyleWarning
		if m.written != "" && m.status == "wrote "+m.written {
			statusStyle = StyleSuccess
		}
		b.WriteString("  " + statusStyle.Render(m.status))
	}

	return b.String()
}
