// Package reporter writes report collections for CLI commands.
package reporter

import (
	"fmt"
	"io"

	"github.com/ppiankov/reportdesk/internal/models"
)

// Reporter renders a collection or a single report.
type Reporter interface {
	// List writes reports with their 1-based collection positions. A nil
	// positions slice numbers the reports in order.
	List(reports []models.Report, positions []int) error
	// Detail writes one report at the given 1-based position.
	Detail(report models.Report, position int) error
}

// NewReporter returns the reporter for format (text, json, yaml).
func NewReporter(format string, w io.Writer) (Reporter, error) {
	switch format {
	case "", "text":
		return NewTextReporter(w), nil
	case "json":
		return NewJSONReporter(w, true), nil
	case "yaml":
		return NewYAMLReporter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (must be text, json, or yaml)", format)
	}
}

func positionAt(positions []int, i int) int {
	if i < len(positions) {
		return positions[i]
	}
	return i + 1
}

// reportList keeps empty collections as [] rather than null.
func reportList(reports []models.Report) []models.Report {
	if reports == nil {
		return []models.Report{}
	}
	return reports
}
