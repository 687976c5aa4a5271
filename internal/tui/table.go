package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/reportdesk/internal/models"
)

const (
	positionColWidth = 4
	updatedColWidth  = 16
	minTitleColWidth = 16
)

func tableColumns(width int) []table.Column {
	title := width - positionColWidth - updatedColWidth - 8
	if title < minTitleColWidth {
		title = minTitleColWidth
	}
	return []table.Column{
		{Title: "#", Width: positionColWidth},
		{Title: "Title", Width: title},
		{Title: "Updated", Width: updatedColWidth},
	}
}

// buildRows converts reports to table rows. pos supplies collection positions
// so a filtered view still shows where each report sits.
func buildRows(rs []models.Report, pos map[string]int, titleWidth int) []table.Row {
	rows := make([]table.Row, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, table.Row{
			strconv.Itoa(pos[r.ID]),
			truncate(r.Title, titleWidth),
			formatTime(r.UpdatedAt),
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

// newTable creates a bubbles table with standard columns and styling.
func newTable(width, height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}
