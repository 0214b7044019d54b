package service

import (
	"fmt"
	"math"

	"sentinel-portal/memo"
	"sentinel-portal/models"
)

const pending = "Pending"

const (
	complianceMemoTitle = "Compliance memo"
	advisoryMemoTitle   = "Advisory memo"
)

// BuildDecisionView turns a decision service response into the result panel.
// A nil response is the state before any analysis has run.
func BuildDecisionView(resp *models.DecisionResponse) models.DecisionView {
	view := models.DecisionView{
		ComplianceMemo: emptyMemo(memo.KindCompliance),
		AdvisoryMemo:   emptyMemo(memo.KindAdvisory),
		Signals:        signalsOf(resp),
	}

	if resp == nil {
		view.Verdict = "Awaiting Analysis"
		view.Tone = models.ToneNone
		view.Headline = "Upload a statement to run Sentinel."
		view.Detail = "Decision details will appear after processing."
		return view
	}

	view.Decision = resp.FinalDecision
	switch resp.FinalDecision {
	case models.DecisionReject:
		view.Verdict = "High Risk"
		view.Tone = models.ToneAlert
		view.Headline = "Escalate to compliance review."
		view.Detail = "Multiple risk indicators were detected. Review MAS guideline references below."
		view.ComplianceMemo = memoView(memo.KindCompliance, models.Text(resp.LegalOpinion))

	case models.DecisionApprove:
		view.Verdict = "Low Risk"
		view.Tone = models.ToneSafe
		view.Headline = "Onboard with advisory handoff."
		view.Detail = "Affordability metrics pass and no AML flags triggered. Review wealth product suggestions below."
		view.AdvisoryMemo = memoView(memo.KindAdvisory, models.Text(resp.WealthPlan))

	default:
		view.Verdict = "Analysis Error"
		view.Tone = models.ToneAlert
		view.Headline = "Unable to process the statement."
		view.Detail = "Please try another PDF or check the backend logs."
	}

	return view
}

func memoView(kind memo.Kind, text string) models.MemoView {
	v := emptyMemo(kind)
	// only the advisory card lists its recommendations as bullets
	v.Sections = memo.Render(text, kind, kind == memo.KindAdvisory)
	v.Empty = len(v.Sections) == 0
	return v
}

func emptyMemo(kind memo.Kind) models.MemoView {
	v := models.MemoView{
		Kind:      kind,
		Sections:  []memo.Rendered{},
		EmptyText: memo.EmptyText(kind),
		Empty:     true,
	}
	if kind == memo.KindCompliance {
		v.Title = complianceMemoTitle
	} else {
		v.Title = advisoryMemoTitle
	}
	return v
}

func signalsOf(resp *models.DecisionResponse) models.Signals {
	s := models.Signals{
		Affordability:  pending,
		Structuring:    pending,
		SourceOfWealth: pending,
	}
	if resp == nil {
		return s
	}

	if ra := resp.RiskAnalysis; ra != nil {
		if ra.MathAnalysis != nil && ra.MathAnalysis.Ratio != 0 {
			s.Affordability = fmt.Sprintf("%d%%", int(math.Round(ra.MathAnalysis.Ratio*100)))
		}
		if ra.ComplianceAnalysis != nil && ra.ComplianceAnalysis.Category != "" {
			s.Structuring = ra.ComplianceAnalysis.Category
		}
	}
	if resp.ClientData != nil && resp.ClientData.SourceOfWealth != "" {
		s.SourceOfWealth = resp.ClientData.SourceOfWealth
	}
	return s
}
