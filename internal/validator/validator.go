package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/reportdesk/internal/models"
)

// Export file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidationError lists every problem found in one export file
type ValidationError struct {
	Source string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid export %s:\n  - %s", e.Source, strings.Join(e.Errors, "\n  - "))
}

// Validator checks report exports before they are imported
type Validator struct{}

// New creates a new validator
func New() *Validator {
	return &Validator{}
}

// FormatForPath picks the export format from a file extension; anything that
// is not .yaml or .yml is read as JSON.
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// ValidateExport decodes an export and checks every entry. The decoded reports
// are returned alongside a *ValidationError so callers can import the valid
// ones. A file that cannot be decoded returns no reports.
func (v *Validator) ValidateExport(source, format string, data []byte) ([]models.Report, error) {
	var reports []models.Report
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &reports)
	case FormatJSON, "":
		err = json.Unmarshal(data, &reports)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return nil, &ValidationError{
			Source: source,
			Errors: []string{fmt.Sprintf("Failed to parse %s: %v", strings.ToUpper(format), err)},
		}
	}

	if errs := v.checkReports(reports); len(errs) > 0 {
		return reports, &ValidationError{Source: source, Errors: errs}
	}
	return reports, nil
}

func (v *Validator) checkReports(reports []models.Report) []string {
	var errors []string
	seen := make(map[string]int, len(reports))

	for i, r := range reports {
		entry := fmt.Sprintf("Entry %d", i+1)
		if r.Title != "" {
			entry = fmt.Sprintf("Entry %d (%q)", i+1, r.Title)
		}

		if strings.TrimSpace(r.ID) == "" {
			errors = append(errors, entry+": missing required field 'id'")
		} else if first, dup := seen[r.ID]; dup {
			errors = append(errors, fmt.Sprintf("%s: duplicate id %s (first used by entry %d)", entry, r.ID, first))
		} else {
			seen[r.ID] = i + 1
		}

		if strings.TrimSpace(r.Title) == "" {
			errors = append(errors, entry+": missing required field 'title'")
		}
		if r.CreatedAt.IsZero() {
			errors = append(errors, entry+": missing or invalid field 'createdAt'")
		}
		if !r.CreatedAt.IsZero() && r.UpdatedAt.Before(r.CreatedAt) {
			errors = append(errors, entry+": 'updatedAt' is earlier than 'createdAt'")
		}
	}

	return errors
}
