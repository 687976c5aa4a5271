package assistant

import (
	"regexp"
	"strings"
)

// UntitledReport is used when neither the model output nor the prompt yields a title.
const UntitledReport = "Untitled report"

const fallbackTitleWords = 5

var titlePattern = regexp.MustCompile(`(?i)\btitle\s*:\s*([^\n]+)`)

// ExtractTitle finds the first "title:" line in generated text. Without one,
// it uses the first five words of the prompt.
func ExtractTitle(text, prompt string) string {
	if m := titlePattern.FindStringSubmatch(text); m != nil {
		if title := cleanTitle(m[1]); title != "" {
			return title
		}
	}

	words := strings.Fields(prompt)
	if len(words) == 0 {
		return UntitledReport
	}
	if len(words) > fallbackTitleWords {
		words = words[:fallbackTitleWords]
	}
	return strings.Join(words, " ")
}

// cleanTitle drops surrounding whitespace and markdown emphasis or heading marks.
func cleanTitle(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_#\"`"))
}
