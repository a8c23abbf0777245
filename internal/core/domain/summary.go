package domain

// Summary is a structured contract overview for dashboard display.
type Summary struct {
	// Summary is a one-to-two paragraph executive summary.
	Summary string `json:"summary"`

	// Purpose is the main purpose of the contract.
	Purpose string `json:"purpose"`

	// Scope describes what the contract covers.
	Scope string `json:"scope"`

	// KeyObligations maps party name to its obligations.
	KeyObligations map[string][]string `json:"key_obligations"`

	// Highlights are the key points worth surfacing.
	Highlights []string `json:"highlights"`
}
