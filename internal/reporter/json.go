package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/reportdesk/internal/models"
)

// JSONReporter writes reports in the same shape the store persists them.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// List writes the collection as a JSON array.
func (r *JSONReporter) List(reports []models.Report, _ []int) error {
	return r.write(reportList(reports))
}

// Detail writes a single report object.
func (r *JSONReporter) Detail(report models.Report, _ int) error {
	return r.write(report)
}

func (r *JSONReporter) write(v any) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	if _, err := r.writer.Write(data); err != nil {
		return err
	}
	_, err = r.writer.Write([]byte("\n"))
	return err
}
