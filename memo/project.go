package memo

import (
	"regexp"
	"strings"
)

var lineBreaks = regexp.MustCompile(`\n+`)

// Project orders sections by the expected labels, keeping only the first
// section for each label. Labels with no section are skipped, never synthesized.
func Project(sections []Section, expected []Label) []Section {
	out := make([]Section, 0, len(expected))
	for _, want := range expected {
		wantLabel, ok := NormalizeLabel(string(want))
		if !ok {
			continue
		}
		for _, s := range sections {
			if got, ok := NormalizeLabel(string(s.Label)); ok && got == wantLabel {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Bullets splits content into trimmed, non-empty lines
func Bullets(content string) []string {
	lines := lineBreaks.Split(strings.ReplaceAll(content, "\r\n", "\n"), -1)
	bullets := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}

// Rendered is a projected section ready for display
type Rendered struct {
	Label   Label    `json:"label" yaml:"label"`
	Content string   `json:"content" yaml:"content"`
	Bullets []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
}

// Render extracts and projects a memo for its kind. With bulleted set,
// Recommendation sections also carry their content split into bullets.
func Render(text string, kind Kind, bulleted bool) []Rendered {
	projected := Project(Extract(text, kind), ExpectedLabels(kind))

	out := make([]Rendered, 0, len(projected))
	for _, s := range projected {
		r := Rendered{Label: s.Label, Content: s.Content}
		if bulleted && s.Label == LabelRecommendation {
			r.Bullets = Bullets(s.Content)
		}
		out = append(out, r)
	}
	return out
}
