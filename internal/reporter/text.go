package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/render"
)

const (
	timeLayout    = "2006-01-02 15:04"
	minTitleWidth = 20
	maxTitleWidth = 60
	// position, updated and id columns plus borders and padding
	fixedColumnsWidth = 4 + len(timeLayout) + 36 + 13
)

// TextReporter writes human-readable tables
type TextReporter struct {
	writer io.Writer
	width  int
}

// NewTextReporter creates a new text reporter sized to the terminal behind writer
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer: writer,
		width:  detectTerminalWidth(writer),
	}
}

// WithWidth fixes the output width, overriding terminal detection.
func (r *TextReporter) WithWidth(width int) *TextReporter {
	r.width = width
	return r
}

// List prints the collection as a rounded table.
func (r *TextReporter) List(reports []models.Report, positions []int) error {
	if len(reports) == 0 {
		r.printf("No reports.\n")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.writer)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "Title", "Updated", "ID"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: r.titleWidth(), Transformer: truncTransformer(r.titleWidth())},
	})

	for i, rep := range reports {
		tw.AppendRow(table.Row{positionAt(positions, i), rep.Title, formatTimestamp(rep.UpdatedAt), rep.ID})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d report(s)", len(reports)), "", ""})
	tw.Render()
	return nil
}

// Detail prints one report with its content as plain text.
func (r *TextReporter) Detail(rep models.Report, position int) error {
	r.printf("%s\n", rep.Title)
	r.printf("%s\n", strings.Repeat("-", max(len([]rune(rep.Title)), 10)))
	r.printf("  Position: %d\n", position)
	r.printf("  ID:       %s\n", rep.ID)
	r.printf("  Created:  %s\n", formatTimestamp(rep.CreatedAt))
	r.printf("  Updated:  %s\n\n", formatTimestamp(rep.UpdatedAt))

	body := render.PlainText(rep.Content)
	if body == "" {
		body = "(no content)"
	}
	r.printf("%s\n", body)
	return nil
}

func (r *TextReporter) titleWidth() int {
	if r.width <= 0 {
		return maxTitleWidth
	}
	w := r.width - fixedColumnsWidth
	if w < minTitleWidth {
		return minTitleWidth
	}
	if w > maxTitleWidth {
		return maxTitleWidth
	}
	return w
}

func (r *TextReporter) printf(format string, args ...any) {
	fmt.Fprintf(r.writer, format, args...)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// detectTerminalWidth returns -1 when writer is not a terminal.
func detectTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return -1
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil {
		return width
	}
	return -1
}

// truncTransformer ellipsizes cells longer than limit runes.
func truncTransformer(limit int) text.Transformer {
	return func(val interface{}) string {
		s := fmt.Sprint(val)
		runes := []rune(s)
		if len(runes) <= limit {
			return s
		}
		if limit <= 1 {
			return "…"
		}
		return string(runes[:limit-1]) + "…"
	}
}
