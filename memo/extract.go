package memo

import (
	"regexp"
	"strings"
)

const (
	// PlaceholderRegulation fills the Regulation field when nothing could be attributed to it
	PlaceholderRegulation = "Not specified in the response."

	// WealthProductMarker marks a product-listing memo that must not be fragmented
	WealthProductMarker = "Wealth Product"

	minSentencesSplit = 2
)

// space matches Unicode whitespace; RE2's \s is ASCII only
const space = `[\s\v\p{Z}\x{FEFF}]`

var (
	labelMarker      = regexp.MustCompile(`(?i)(reason|regulation|recommendation)` + space + `*[:\-]`)
	sentenceBoundary = regexp.MustCompile(`[.!?]` + space + `+`)
)

// Section is a labeled span of memo text
type Section struct {
	Label   Label  `json:"label" yaml:"label"`
	Content string `json:"content" yaml:"content"`
}

// tier is one extraction stage. It reports false when it found no structure.
type tier func(text string, kind Kind) ([]Section, bool)

// tiers run in order; the first one that matches wins
var tiers = []tier{
	scanMarkers,
	wealthProductListing,
	splitSentences,
	wholeText,
}

// Extract segments free memo text into labeled sections.
// It never fails: degenerate input yields either nothing (empty text)
// or a placeholder-filled result.
//
// Line endings are normalized to \n and the text is trimmed before any tier
// runs, so whole-text sections carry the trimmed input.
func Extract(text string, kind Kind) []Section {
	if strings.TrimSpace(text) == "" {
		return []Section{}
	}

	normalized := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	for _, t := range tiers {
		if sections, ok := t(normalized, kind); ok {
			return sections
		}
	}
	return []Section{}
}

type marker struct {
	label      Label
	start, end int
}

// markersOf finds label markers in text order. (?i) folds Unicode, so
// spellings like "reaſon" match the pattern and are rejected here.
func markersOf(text string) []marker {
	var markers []marker
	for _, m := range labelMarker.FindAllStringSubmatchIndex(text, -1) {
		label, ok := NormalizeLabel(text[m[2]:m[3]])
		if !ok {
			continue
		}
		markers = append(markers, marker{label: label, start: m[0], end: m[1]})
	}
	return markers
}

// scanMarkers splits on "Label:" / "Label -" markers. Text before the first marker is dropped.
func scanMarkers(text string, _ Kind) ([]Section, bool) {
	markers := markersOf(text)
	if len(markers) == 0 {
		return nil, false
	}

	sections := make([]Section, 0, len(markers))
	for i, m := range markers {
		to := len(text)
		if i+1 < len(markers) {
			to = markers[i+1].start
		}
		if content := strings.TrimSpace(text[m.end:to]); content != "" {
			sections = append(sections, Section{Label: m.label, Content: content})
		}
	}

	if len(sections) == 0 {
		return nil, false
	}
	return sections, true
}

func wealthProductListing(text string, _ Kind) ([]Section, bool) {
	if !strings.Contains(text, WealthProductMarker) {
		return nil, false
	}
	return []Section{{Label: LabelRecommendation, Content: text}}, true
}

func splitSentences(text string, kind Kind) ([]Section, bool) {
	sentences := sentencesOf(text)
	if len(sentences) < minSentencesSplit {
		return nil, false
	}

	if kind == KindCompliance {
		// the second sentence lands in both fields
		return []Section{
			{Label: LabelReason, Content: strings.Join(sentences[:2], " ")},
			{Label: LabelRegulation, Content: strings.Join(sentences[1:], " ")},
		}, true
	}
	return []Section{{Label: LabelRecommendation, Content: strings.Join(sentences, " ")}}, true
}

func wholeText(text string, kind Kind) ([]Section, bool) {
	if kind == KindCompliance {
		return []Section{
			{Label: LabelReason, Content: text},
			{Label: LabelRegulation, Content: PlaceholderRegulation},
		}, true
	}
	return []Section{{Label: LabelRecommendation, Content: text}}, true
}

// sentencesOf splits after '.', '!' or '?' when followed by whitespace,
// including no-break and other Unicode spaces.
// The terminator stays with its sentence and empty pieces are dropped.
func sentencesOf(text string) []string {
	var sentences []string
	start := 0
	for _, b := range sentenceBoundary.FindAllStringIndex(text, -1) {
		if s := text[start : b[0]+1]; s != "" {
			sentences = append(sentences, s)
		}
		start = b[1]
	}
	if rest := text[start:]; rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
