package reporter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/reportdesk/internal/models"
)

// YAMLReporter writes reports as YAML documents.
type YAMLReporter struct {
	writer io.Writer
}

// NewYAMLReporter creates a new YAML reporter
func NewYAMLReporter(writer io.Writer) *YAMLReporter {
	return &YAMLReporter{writer: writer}
}

// List writes the collection as a YAML sequence.
func (r *YAMLReporter) List(reports []models.Report, _ []int) error {
	return r.encode(reportList(reports))
}

// Detail writes a single report mapping.
func (r *YAMLReporter) Detail(report models.Report, _ int) error {
	return r.encode(report)
}

func (r *YAMLReporter) encode(v any) error {
	enc := yaml.NewEncoder(r.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
