package tui

import (
	"fmt"
	"strings"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 4

// renderHeader shows the collection size and the active search.
func renderHeader(total, visible int, f filterState, busy bool, width int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("reportdesk  Reports: %d", total))
	if busy {
		b.WriteString("  " + styleLabel.Render("assistant working…"))
	}
	b.WriteString("\n")

	if f.active() {
		b.WriteString(fmt.Sprintf("Search: %q  (%d/%d shown)", f.SearchText, visible, total))
	} else {
		b.WriteString(styleLabel.Render("Search: none"))
	}

	return styleHeader.Width(width).Render(b.String())
}
