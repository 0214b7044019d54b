package models

// Decision is the discrete outcome returned by the decision service
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// MathAnalysis is the affordability check
type MathAnalysis struct {
	Ratio    float64 `json:"ratio"`
	Status   string  `json:"status"`
	Income   float64 `json:"income,omitempty"`
	Spending float64 `json:"spending,omitempty"`
}

// ComplianceAnalysis is the AML check
type ComplianceAnalysis struct {
	Category string   `json:"category"`
	Reasons  []string `json:"reasons"`
}

// RiskAnalysis groups the risk engine checks
type RiskAnalysis struct {
	FinalDecision      Decision            `json:"final_decision,omitempty"`
	MathAnalysis       *MathAnalysis       `json:"math_analysis,omitempty"`
	ComplianceAnalysis *ComplianceAnalysis `json:"compliance_analysis,omitempty"`
}

// ClientData is the subset of extracted statement fields the portal shows
type ClientData struct {
	ClientName       string   `json:"client_name,omitempty"`
	AccountNumber    string   `json:"account_number,omitempty"`
	StatementDate    string   `json:"statement_date,omitempty"`
	SourceOfWealth   string   `json:"source_of_wealth,omitempty"`
	TotalIncome      float64  `json:"total_income,omitempty"`
	TotalExpenditure float64  `json:"total_expenditure,omitempty"`
	RiskFlags        []string `json:"risk_flags,omitempty"`
}

// DecisionResponse is the decision service response body
type DecisionResponse struct {
	FinalDecision Decision      `json:"final_decision"`
	RiskAnalysis  *RiskAnalysis `json:"risk_analysis,omitempty"`
	LegalOpinion  *string       `json:"legal_opinion,omitempty"`
	WealthPlan    *string       `json:"wealth_plan,omitempty"`
	ClientData    *ClientData   `json:"client_data,omitempty"`
}

// Text dereferences an optional memo field
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
