package assistant

import "testing"

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		prompt string
		want   string
	}{
		{"plain", "Title: Quarterly Report\nBody", "x", "Quarterly Report"},
		{"lowercase", "title:   budget plan  \n", "x", "budget plan"},
		{"uppercase", "TITLE: LOUD", "x", "LOUD"},
		{"markdown bold", "**Title:** Hiring Update\n\n...", "x", "Hiring Update"},
		{"heading", "## Title: Incident Review", "x", "Incident Review"},
		{"mid text", "Here you go.\nTitle: Second Line\nmore", "x", "Second Line"},
		{"first match wins", "Title: One\nTitle: Two", "x", "One"},
		{"subtitle ignored", "Subtitle: nope\nbody", "alpha beta", "alpha beta"},
		{"no title long prompt", "no heading here", "write a report about our new office opening", "write a report about our"},
		{"no title short prompt", "nothing", "  sales  ", "sales"},
		{"empty title falls back", "Title: **\n", "fallback words", "fallback words"},
		{"nothing at all", "", "   ", UntitledReport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.text, tt.prompt); got != tt.want {
				t.Errorf("ExtractTitle(%q, %q) = %q, want %q", tt.text, tt.prompt, got, tt.want)
			}
		})
	}
}
