package models

import "sentinel-portal/memo"

// Tone drives the result card styling
type Tone string

const (
	ToneNone  Tone = ""
	ToneAlert Tone = "alert"
	ToneSafe  Tone = "safe"
)

// Signals are the headline metrics shown next to the verdict
type Signals struct {
	Affordability  string `json:"affordability"`
	Structuring    string `json:"structuring"`
	SourceOfWealth string `json:"source_of_wealth"`
}

// MemoView is one memo card: its projected sections or an empty-state message
type MemoView struct {
	Kind      memo.Kind       `json:"kind"`
	Title     string          `json:"title"`
	Sections  []memo.Rendered `json:"sections"`
	EmptyText string          `json:"empty_text"`
	Empty     bool            `json:"empty"`
}

// DecisionView is everything the result panel renders for one analysis
type DecisionView struct {
	Decision       Decision `json:"decision,omitempty"`
	Verdict        string   `json:"verdict"`
	Tone           Tone     `json:"tone"`
	Headline       string   `json:"headline"`
	Detail         string   `json:"detail"`
	Signals        Signals  `json:"signals"`
	ComplianceMemo MemoView `json:"compliance_memo"`
	AdvisoryMemo   MemoView `json:"advisory_memo"`
}
