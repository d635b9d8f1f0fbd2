package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ievis/pkg/store"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// ModelListModel is the bubbletea model for picking a stored model.
type ModelListModel struct {
	Models   []store.ModelSummary
	Cursor   int
	Offset   int
	Height   int
	Selected *store.ModelSummary

	now func() time.Time
}

// NewModelListModel creates a picker over models.
func NewModelListModel(models []store.ModelSummary) ModelListModel {
	return ModelListModel{Models: models, Height: 15, now: time.Now}
}

func (m ModelListModel) Init() tea.Cmd {
	return nil
}

func (m ModelListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Models)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Models) == 0 {
				return m, tea.Quit
			}
			sel := m.Models[m.Cursor]
			m.Selected = &sel
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ModelListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Model"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Models))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Models[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			s.Name,
			orDash(s.Population),
			fmt.Sprint(s.Elements),
			fmt.Sprint(s.Relationships),
			m.relativeTime(s.Timestamp),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Model", "Population", "Elements", "Rels", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorGray).Align(lipgloss.Right)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Models)), len(m.Models))))
	return b.String()
}

func (m ModelListModel) relativeTime(ns int64) string {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	return formatRelativeTime(ns, now())
}

// formatRelativeTime renders a nanosecond timestamp relative to now,
// falling back to the calendar date after a week.
func formatRelativeTime(ns int64, now time.Time) string {
	if ns == 0 {
		return "—"
	}
	t := time.Unix(0, ns)
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return store.FormatDate(ns)
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return store.FormatDate(ns)
	}
}
