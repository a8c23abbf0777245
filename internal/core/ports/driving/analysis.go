package driving

import (
	"context"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// RiskAnalysisService produces risk reports for contract text.
type RiskAnalysisService interface {
	// Analyze runs the deterministic rule checklist over the full text
	// and, when a generative backend is configured, merges its validated
	// findings. A generative failure never fails the report: the
	// deterministic findings are returned with one synthetic low-severity
	// "analysis incomplete" entry appended.
	Analyze(ctx context.Context, contractID, text, language string, extracted map[string]any) (*domain.RiskReport, error)
}

// ExtractionService pulls structured fields (parties, monetary amounts,
// governing law, term) out of contract text. The result feeds the risk
// critique and the summary as untyped key/value context.
type ExtractionService interface {
	// Extract returns the extracted fields for the contract. Extraction
	// never fails: the heuristic layer always contributes, and a
	// generative failure just leaves the model layer out.
	Extract(ctx context.Context, contract *domain.Contract) map[string]any
}

// SummaryService generates structured contract summaries.
type SummaryService interface {
	// Summarise produces a structured summary for the contract. When the
	// generative backend fails or is absent, a deterministic summary is
	// assembled from the extracted fields and the risk report instead.
	Summarise(ctx context.Context, contract *domain.Contract, extracted map[string]any, report *domain.RiskReport) (*domain.Summary, error)
}
