package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// modelCritique is the wire shape the risk prompt asks the model for.
// Every entry is kept raw and validated individually, so one malformed
// item never poisons the rest of the payload.
type modelCritique struct {
	Risks          []json.RawMessage `json:"risks"`
	NonStandard    []json.RawMessage `json:"non_standard"`
	MissingClauses []json.RawMessage `json:"missing_clauses"`
}

// rawFinding is the untyped shape of one model-proposed finding.
type rawFinding struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Severity       string   `json:"severity"`
	Finding        string   `json:"finding"`
	EvidenceChunks []string `json:"evidence_chunks"`
	Recommendation string   `json:"recommendation"`
}

// rawMissingClause is the untyped shape of one model-proposed missing clause.
type rawMissingClause struct {
	Clause string `json:"clause"`
	Why    string `json:"why"`
}

// parsedCritique holds validated model findings plus a count of entries
// that were dropped for being malformed. The count is diagnostic only;
// dropped entries are never surfaced to the end user.
type parsedCritique struct {
	risks          []domain.RiskFinding
	nonStandard    []domain.RiskFinding
	missingClauses []domain.MissingClause
	dropped        int
}

// parseModelCritique converts the model's untyped JSON payload into typed
// findings. The payload must be a single JSON object with the three
// bucket keys; anything else is an error. Individual malformed entries
// are dropped and counted, never propagated.
func parseModelCritique(payload string) (*parsedCritique, error) {
	payload = extractJSON(payload)

	var critique modelCritique
	if err := json.Unmarshal([]byte(payload), &critique); err != nil {
		return nil, fmt.Errorf("decode critique: %w", err)
	}

	out := &parsedCritique{}
	seq := 0

	for _, raw := range critique.Risks {
		if f, ok := validateFinding(raw, &seq); ok {
			out.risks = append(out.risks, f)
		} else {
			out.dropped++
		}
	}
	for _, raw := range critique.NonStandard {
		if f, ok := validateFinding(raw, &seq); ok {
			out.nonStandard = append(out.nonStandard, f)
		} else {
			out.dropped++
		}
	}
	for _, raw := range critique.MissingClauses {
		if m, ok := validateMissingClause(raw); ok {
			out.missingClauses = append(out.missingClauses, m)
		} else {
			out.dropped++
		}
	}

	return out, nil
}

// validateFinding checks one proposed finding for shape. Title and
// finding text are required; severity coerces to medium when absent or
// unrecognised; a synthetic id is assigned when the model omitted one.
func validateFinding(raw json.RawMessage, seq *int) (domain.RiskFinding, bool) {
	var rf rawFinding
	if err := json.Unmarshal(raw, &rf); err != nil {
		return domain.RiskFinding{}, false
	}
	if strings.TrimSpace(rf.Title) == "" || strings.TrimSpace(rf.Finding) == "" {
		return domain.RiskFinding{}, false
	}

	id := strings.TrimSpace(rf.ID)
	if id == "" {
		id = fmt.Sprintf("llm_%03d", *seq)
	}
	*seq++

	evidence := rf.EvidenceChunks
	if evidence == nil {
		evidence = []string{}
	}

	return domain.RiskFinding{
		ID:             id,
		Title:          strings.TrimSpace(rf.Title),
		Severity:       domain.ParseSeverity(rf.Severity),
		Finding:        strings.TrimSpace(rf.Finding),
		EvidenceChunks: evidence,
		Recommendation: strings.TrimSpace(rf.Recommendation),
	}, true
}

// validateMissingClause checks one proposed missing clause for shape.
func validateMissingClause(raw json.RawMessage) (domain.MissingClause, bool) {
	var rm rawMissingClause
	if err := json.Unmarshal(raw, &rm); err != nil {
		return domain.MissingClause{}, false
	}
	if strings.TrimSpace(rm.Clause) == "" {
		return domain.MissingClause{}, false
	}
	return domain.MissingClause{
		Clause: strings.TrimSpace(rm.Clause),
		Why:    strings.TrimSpace(rm.Why),
	}, true
}

// extractJSON strips markdown code fences that some models wrap around
// JSON output despite JSON-mode instructions.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
