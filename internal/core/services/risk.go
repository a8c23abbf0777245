package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/contralens/internal/chunker"
	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/logger"
)

// Ensure RiskService implements the interface.
var _ driving.RiskAnalysisService = (*RiskService)(nil)

// Critique window parameters: wider windows than retrieval chunks, and a
// cap on how many are sent, to keep the prompt bounded.
const (
	critiqueWindow    = 600
	critiqueOverlap   = 90
	critiqueMaxChunks = 40
)

// defaultRiskPrompt instructs the model to act as contracts counsel and
// return only the three-bucket JSON shape.
const defaultRiskPrompt = `Act as a senior contracts counsel. Review the provided contract CHUNKS and the already-extracted fields. ` +
	`Return ONLY JSON with keys: risks, non_standard, missing_clauses. ` +
	`Each risk/non_standard item must include: id, title, severity (low|medium|high|critical), finding, evidence_chunks (list of chunk_ids), and recommendation (optional). ` +
	`Each missing_clauses item must include: clause, why. Use only the provided text; no speculation.`

// checklist enumerates the review questions handed to the model alongside
// the chunks. Keys mirror the deterministic detectors.
var checklist = map[string][]string{
	"liability": {
		"Is there a limitation of liability clause? Is there a monetary cap? Are carve-outs present (IP infringement, death/personal injury, fraud, willful misconduct, data breach)?",
	},
	"indemnity": {
		"Is indemnity present? Is it mutual? Does it cover third-party claims and IP infringement?",
	},
	"termination": {
		"Termination for cause with cure periods? Any unilateral termination for convenience? Effect of termination defined?",
	},
	"confidentiality": {
		"Confidentiality/NDA present? Duration reasonable (>=2 years)? Exceptions (law, court order, independently developed, already known)?",
	},
	"data_protection": {
		"Data protection/privacy obligations if personal data involved? Breach notice? Security measures? Reference to GDPR/PDPL if applicable?",
	},
	"payment": {
		"Payment terms defined (due dates, late fees, invoicing, currency)? Excessive penalties?",
	},
	"ip": {
		"Intellectual property ownership clarified (background vs foreground)? License scope? Restrictions?",
	},
	"dispute_resolution": {
		"Governing law consistent with venue/arbitration? Seat, rules, language specified if arbitration?",
	},
	"force_majeure": {
		"Force majeure clause present? Notice and mitigation?",
	},
	"assignment": {
		"Assignment/subcontracting restrictions? Consent? Change of control?",
	},
	"warranties": {
		"Reasonable limited warranties and appropriate disclaimers of implied warranties?",
	},
	"audit": {
		"If relevant (regulated/procurement), audit/inspection rights defined?",
	},
}

// RiskService produces risk reports by layering an optional model
// critique on top of a deterministic rule checklist.
//
// The deterministic layer always runs and always comes first in each
// bucket, so reports are reproducible: two analyses of the same text
// differ only in the model-layer tail.
type RiskService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewRiskService creates a risk analysis service.
// The llm is optional (can be nil); without it, reports contain only the
// deterministic layer. The prompt store is optional; without it, the
// built-in prompt is used.
func NewRiskService(llm driven.LLMService, prompts driven.PromptStore) *RiskService {
	return &RiskService{llm: llm, prompts: prompts}
}

// Analyze runs the full pipeline over the contract text.
func (s *RiskService) Analyze(ctx context.Context, contractID, text, language string, extracted map[string]any) (*domain.RiskReport, error) {
	logger.Section("Risk Analysis")
	logger.Debug("Contract: %s, text: %d bytes, model: %t", contractID, len(text), s.llm != nil)

	report := runRuleChecks(text)
	logger.Debug("Rule layer: %d risks, %d non-standard, %d missing clauses",
		len(report.Risks), len(report.NonStandard), len(report.MissingClauses))

	if s.llm != nil {
		s.mergeModelCritique(ctx, contractID, text, language, extracted, report)
	}

	report.Overall = report.Score()
	logger.Info("Risk report: score %d (%s), %d findings",
		report.Overall.Score, report.Overall.Level, report.FindingCount())
	return report, nil
}

// mergeModelCritique asks the model for additional findings and appends
// the validated ones after the rule layer. Any failure - transport,
// malformed JSON, context cancellation - degrades to a single synthetic
// low-severity finding; it never fails the report.
func (s *RiskService) mergeModelCritique(
	ctx context.Context, contractID, text, language string,
	extracted map[string]any, report *domain.RiskReport,
) {
	critique, err := s.requestCritique(ctx, contractID, text, language, extracted)
	if err != nil {
		logger.Warn("Model critique failed: %v", err)
		report.Risks = append(report.Risks, domain.RiskFinding{
			ID:             "risk_llm_error",
			Title:          "LLM analysis incomplete",
			Severity:       domain.SeverityLow,
			Finding:        fmt.Sprintf("Model critique failed: %v", err),
			EvidenceChunks: []string{},
			Recommendation: "Proceed with deterministic checks; retry LLM later.",
		})
		return
	}

	if critique.dropped > 0 {
		logger.Warn("Dropped %d malformed model findings", critique.dropped)
	}

	report.Risks = append(report.Risks, critique.risks...)
	report.NonStandard = append(report.NonStandard, critique.nonStandard...)
	report.MissingClauses = append(report.MissingClauses, critique.missingClauses...)
}

// requestCritique builds the JSON payload, calls the model and parses the
// response.
func (s *RiskService) requestCritique(
	ctx context.Context, contractID, text, language string, extracted map[string]any,
) (*parsedCritique, error) {
	if language != "en" && language != "ar" {
		language = "en"
	}
	if extracted == nil {
		extracted = map[string]any{}
	}

	// Wider windows than retrieval chunks: the model needs clause-level
	// context, not embedding-sized slices.
	wide := chunker.New(chunker.WithWindow(critiqueWindow), chunker.WithOverlap(critiqueOverlap))
	chunks := wide.Chunk(text)
	if len(chunks) > critiqueMaxChunks {
		chunks = chunks[:critiqueMaxChunks]
	}

	payload, err := json.Marshal(map[string]any{
		"doc_id":    contractID,
		"language":  language,
		"extracted": extracted,
		"checklist": checklist,
		"chunks":    chunks,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal critique payload: %w", err)
	}

	prompt := s.loadPrompt(driven.PromptRiskSystem, defaultRiskPrompt)

	response, err := s.llm.Generate(ctx, prompt+"\n\n"+string(payload), driven.GenerateOptions{
		JSONMode:    true,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerativeCallFailed, err)
	}

	return parseModelCritique(response)
}

// loadPrompt fetches a prompt from the store, falling back to the
// built-in default.
func (s *RiskService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}
