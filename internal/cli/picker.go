package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// pickOutputs resolves the layouts and lets the user select which
// outputs to render via an interactive list.
func (c *CLI) pickOutputs(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) ([]string, error) {
	layouts, _, err := runner.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}

	model := newLayoutListModel(layouts)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	return final.(layoutListModel).picked(), nil
}

// layoutListModel is the bubbletea model for interactive layout selection.
type layoutListModel struct {
	layouts  []entity.Layout
	cursor   int
	selected map[int]bool
	height   int
	offset   int
	done     bool
}

func newLayoutListModel(layouts []entity.Layout) layoutListModel {
	return layoutListModel{
		layouts:  layouts,
		selected: make(map[int]bool),
		height:   15,
	}
}

// picked returns the output names confirmed with enter. When nothing
// was marked, the layout under the cursor counts as the selection.
func (m layoutListModel) picked() []string {
	if !m.done || len(m.layouts) == 0 {
		return nil
	}
	var names []string
	for i, l := range m.layouts {
		if m.selected[i] {
			names = append(names, l.OutputName())
		}
	}
	if len(names) == 0 {
		names = append(names, m.layouts[m.cursor].OutputName())
	}
	return names
}

func (m layoutListModel) Init() tea.Cmd {
	return nil
}

func (m layoutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.cursor < len(m.layouts)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			for i := range m.layouts {
				m.selected[i] = true
			}
		case "enter":
			if len(m.layouts) == 0 {
				return m, tea.Quit
			}
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m layoutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Outputs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space mark  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.layouts) {
		end = len(m.layouts)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		l := m.layouts[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := " "
		if m.selected[i] {
			mark = "●"
		}

		rows = append(rows, []string{
			cursor,
			mark,
			l.OutputName(),
			l.Canvas().ID(),
			fmt.Sprintf("%dx%d", l.Canvas().Width(), l.Canvas().Height()),
			strconv.Itoa(len(l.Layers())),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Output", "Canvas", "Size", "Layers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.layouts) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if actualIdx == m.cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if m.selected[actualIdx] {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.layouts))))

	return b.String()
}
