package cli

import (
	"fmt"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pipetrace/pipetrace/pkg/table"
)

// =============================================================================
// ResultModel - Interactive result table browsing
// =============================================================================

// defaultColumnWidth bounds column widths so wide cells do not break the frame.
const (
	minColumnWidth = 6
	maxColumnWidth = 40
)

// ResultModel is the bubbletea model for browsing a result table.
type ResultModel struct {
	rows  int
	table btable.Model
}

// NewResultModel creates a result browser over t.
func NewResultModel(t *table.Table) ResultModel {
	cols := make([]btable.Column, len(t.Columns()))
	for i, name := range t.Columns() {
		cols[i] = btable.Column{Title: name, Width: columnWidth(t, name)}
	}

	rows := make([]btable.Row, t.Len())
	for i, r := range t.Rows() {
		rows[i] = btable.Row(r)
	}

	m := btable.New(
		btable.WithColumns(cols),
		btable.WithRows(rows),
		btable.WithFocused(true),
		btable.WithHeight(15),
	)

	styles := btable.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorDim).
		BorderBottom(true).
		Bold(true).
		Foreground(colorGray)
	styles.Selected = styles.Selected.
		Foreground(colorCyan).
		Bold(true)
	m.SetStyles(styles)

	return ResultModel{rows: t.Len(), table: m}
}

func (m ResultModel) Init() tea.Cmd {
	return nil
}

func (m ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := msg.Height - 6
		if height < 5 {
			height = 5
		}
		m.table.SetHeight(height)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ResultModel) View() string {
	header := StyleTitle.Render("Result") + "\n" +
		StyleDim.Render("↑/↓ navigate  q quit") + "\n\n"
	footer := "\n" + StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.table.Cursor()+1, m.rows))
	return header + m.table.View() + footer
}

// browseTable opens the interactive browser over t and blocks until quit.
func browseTable(t *table.Table) error {
	if t.IsEmpty() {
		printInfo("Result table is empty")
		return nil
	}
	_, err := tea.NewProgram(NewResultModel(t), tea.WithAltScreen()).Run()
	return err
}

// columnWidth sizes a column to its widest cell, clamped to sane bounds.
func columnWidth(t *table.Table, name string) int {
	width := len(name)
	for i := 0; i < t.Len(); i++ {
		cell, err := t.Cell(i, name)
		if err != nil {
			continue
		}
		if len(cell) > width {
			width = len(cell)
		}
	}
	if width < minColumnWidth {
		return minColumnWidth
	}
	if width > maxColumnWidth {
		return maxColumnWidth
	}
	return width
}
