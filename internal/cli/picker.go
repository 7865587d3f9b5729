package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// fieldListModel is the bubbletea model behind `fields --pick`. Fields that
// cannot name output files are shown but cannot be chosen.
type fieldListModel struct {
	Layer    string
	Fields   []fieldInfo
	Cursor   int
	Offset   int
	Height   int
	Selected *fieldInfo
}

func newFieldListModel(layer string, fields []fieldInfo) fieldListModel {
	return fieldListModel{Layer: layer, Fields: fields, Height: 15}
}

func (m fieldListModel) Init() tea.Cmd {
	return nil
}

func (m fieldListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Fields)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			f := m.Fields[m.Cursor]
			if !f.Usable() {
				return m, nil
			}
			m.Selected = &f
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m fieldListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select unique field of " + m.Layer))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Fields))
	for i := m.Offset; i < end; i++ {
		f := m.Fields[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := cursor + style.Render(f.Name)
		if !f.Usable() {
			line = cursor + listDimStyle.Render(f.Name+"  "+f.Problem)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Fields))))
	return b.String()
}
