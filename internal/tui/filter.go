package tui

import (
	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/reports"
)

// filterState holds the active search.
type filterState struct {
	SearchText string
}

func (f filterState) active() bool {
	return f.SearchText != ""
}

// applyFilters returns the reports visible under f, in collection order.
func applyFilters(all []models.Report, f filterState) []models.Report {
	return reports.FilterByTitle(all, f.SearchText)
}

// positions maps report ids to their 1-based place in the full collection.
func positions(all []models.Report) map[string]int {
	pos := make(map[string]int, len(all))
	for i, r := range all {
		pos[r.ID] = i + 1
	}
	return pos
}

func indexByID(rs []models.Report, id string) int {
	for i, r := range rs {
		if r.ID == id {
			return i
		}
	}
	return -1
}
