package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/render"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 6

const detailBodyLines = 3

// renderDetail shows the selected report's timestamps and the start of its content.
func renderDetail(r *models.Report, width int) string {
	if r == nil {
		return styleDetailPanel.Width(width).Render("No report selected")
	}

	var b strings.Builder
	b.WriteString(r.Title + "\n")
	b.WriteString(styleLabel.Render(fmt.Sprintf("Created %s  Updated %s",
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt))))
	b.WriteString("\n")

	body := render.PlainText(r.Content)
	if body == "" {
		b.WriteString(styleLabel.Render("(no content)"))
		return styleDetailPanel.Width(width).Render(b.String())
	}

	lines := strings.Split(body, "\n")
	if len(lines) > detailBodyLines {
		lines = append(lines[:detailBodyLines-1], "…")
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	for i, l := range lines {
		lines[i] = truncate(l, inner)
	}
	b.WriteString(strings.Join(lines, "\n"))

	return styleDetailPanel.Width(width).Render(b.String())
}
