package memo

import (
	"errors"
	"strings"
)

// Kind selects which expected-label template applies to a memo
type Kind string

const (
	KindCompliance Kind = "compliance"
	KindAdvisory   Kind = "advisory"
)

// ErrUnknownKind is returned by ParseKind for anything but compliance or advisory
var ErrUnknownKind = errors.New("unknown memo kind")

// ParseKind converts a user supplied string into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCompliance:
		return KindCompliance, nil
	case KindAdvisory:
		return KindAdvisory, nil
	default:
		return "", ErrUnknownKind
	}
}

// Label is one of the structural tags a memo is segmented into
type Label string

const (
	LabelReason         Label = "Reason"
	LabelRegulation     Label = "Regulation"
	LabelRecommendation Label = "Recommendation"
)

var knownLabels = map[Label]bool{
	LabelReason:         true,
	LabelRegulation:     true,
	LabelRecommendation: true,
}

// NormalizeLabel folds any casing of a known label word to its canonical form
// (first letter uppercase, remainder lowercase).
func NormalizeLabel(s string) (Label, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	l := Label(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	if !knownLabels[l] {
		return "", false
	}
	return l, true
}

// ExpectedLabels returns the display order for a memo kind
func ExpectedLabels(kind Kind) []Label {
	if kind == KindCompliance {
		return []Label{LabelReason, LabelRegulation}
	}
	return []Label{LabelRecommendation}
}

const (
	complianceEmptyText = "Run Sentinel on a high risk client to view MAS references."
	advisoryEmptyText   = "Run Sentinel on a low risk client to view products."
)

// EmptyText is shown in place of a memo whose projection has no sections
func EmptyText(kind Kind) string {
	if kind == KindCompliance {
		return complianceEmptyText
	}
	return advisoryEmptyText
}
