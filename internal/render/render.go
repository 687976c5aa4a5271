// Package render turns stored report content and assistant output into
// terminal-friendly text.
package render

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
)

// MarkdownStyle is the glamour standard style used for assistant output.
const MarkdownStyle = "dark"

var (
	strict = bluemonday.StrictPolicy()

	// Block-level tags that start a new line in the plain-text view.
	blockTag   = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/h[1-6]|/li|/tr|/blockquote|/pre)\s*/?\s*>`)
	listItem   = regexp.MustCompile(`(?i)<\s*li[^>]*>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	spaceRuns  = regexp.MustCompile(`[ \t]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// PlainText strips markup from an HTML fragment, keeping paragraph and line
// breaks.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	s := blockTag.ReplaceAllString(fragment, "$0\n")
	s = listItem.ReplaceAllString(s, "$0- ")
	s = strict.Sanitize(s)
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Excerpt returns a single-line preview of at most n runes.
func Excerpt(fragment string, n int) string {
	s := whitespace.ReplaceAllString(PlainText(fragment), " ")
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:n-1]), " ") + "…"
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// Markdown renders md for a terminal of the given width. The raw text is
// returned when the renderer fails.
func Markdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	r, err := renderer(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// renderer caches one glamour renderer per wrap width. WithAutoStyle is
// avoided because it queries the terminal and can block.
func renderer(width int) (*glamour.TermRenderer, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if r, ok := renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(MarkdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[width] = r
	return r, nil
}
