package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/obsexport/pkg/notebook"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listBodyStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	listHeadStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// cellHeaders are the columns of the cell table.
var cellHeaders = []string{"#", "Name", "Kind", "Source", "Inputs", "Depth"}

// cellRow formats c as a row of the cell table.
func cellRow(nb *notebook.Notebook, c *notebook.Cell) []string {
	name := c.Name
	if c.SourceName != "" {
		name = c.SourceName + " as " + c.Name
	}
	source := "—"
	if c.IsImported(nb.ID) {
		source = c.Source
	}
	inputs := strings.Join(c.Inputs, ", ")
	if inputs == "" {
		inputs = "—"
	}
	return []string{fmt.Sprint(c.Order), name, string(c.Kind), source, inputs, fmt.Sprint(c.Depth)}
}

// cellTable renders cells as a table. highlight is the row index to mark,
// or -1.
func cellTable(nb *notebook.Notebook, cells []*notebook.Cell, highlight int) *table.Table {
	rows := make([][]string, len(cells))
	for i, c := range cells {
		rows[i] = cellRow(nb, c)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(cellHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeadStyle
			}
			if row < 0 || row >= len(cells) {
				return lipgloss.NewStyle()
			}
			c := cells[row]
			base := lipgloss.NewStyle()
			switch {
			case row == highlight:
				base = base.Foreground(colorCyan).Bold(true)
			case c.IsImported(nb.ID):
				base = base.Foreground(colorDim)
			case !c.Resolved:
				base = base.Foreground(colorYellow)
			}
			return base
		})
}

// =============================================================================
// CellListModel - Interactive cell browser
// =============================================================================

// CellListModel is the bubbletea model for browsing the cells of a notebook.
// Enter toggles the content of the selected cell.
type CellListModel struct {
	Notebook *notebook.Notebook
	Cells    []*notebook.Cell
	Cursor   int
	Offset   int
	Height   int
	Expanded bool
}

// NewCellListModel creates a browser over the ordered cells of nb.
func NewCellListModel(nb *notebook.Notebook) CellListModel {
	return CellListModel{
		Notebook: nb,
		Cells:    nb.Cells(),
		Height:   15,
	}
}

func (m CellListModel) Init() tea.Cmd {
	return nil
}

func (m CellListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Cells)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Cells)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		case "enter", " ":
			m.Expanded = !m.Expanded
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CellListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Notebook.ID))
	if title := m.Notebook.Meta["Title"]; title != "" {
		b.WriteString(" " + StyleDim.Render(title))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ show cell  q quit"))
	b.WriteString("\n\n")

	if len(m.Cells) == 0 {
		b.WriteString(listDimStyle.Render("  no cells"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Cells))
	b.WriteString(cellTable(m.Notebook, m.Cells[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cells))))

	if m.Expanded {
		c := m.Cells[m.Cursor]
		b.WriteString("\n")
		if !c.Resolved {
			b.WriteString(listErrorStyle.Render("  reads names the notebook does not define"))
			b.WriteString("\n")
		}
		text := c.Text()
		if c.IsEmpty() {
			text = listDimStyle.Render("imported from " + c.Source)
		}
		b.WriteString(listBodyStyle.Render(strings.TrimRight(text, "\n")))
	}

	return b.String()
}
