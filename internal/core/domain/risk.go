package domain

import (
	"fmt"
	"math"
	"strings"
)

// Severity grades how serious a risk finding is.
type Severity string

// Allowed severity values, ordered from least to most serious.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severity weights used for aggregate scoring.
const (
	weightLow      = 10
	weightMedium   = 25
	weightHigh     = 45
	weightCritical = 70
)

// ParseSeverity normalises a severity string. Unknown or empty values
// coerce to SeverityMedium so that model output with a missing or invented
// severity still contributes a sensible weight.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow
	case SeverityMedium:
		return SeverityMedium
	case SeverityHigh:
		return SeverityHigh
	case SeverityCritical:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}

// Weight returns the scoring weight for the severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return weightLow
	case SeverityHigh:
		return weightHigh
	case SeverityCritical:
		return weightCritical
	default:
		return weightMedium
	}
}

// RiskFinding is a single identified risk or non-standard term.
// Findings come from the deterministic rule layer (synthetic id) or from
// the model critique (model-assigned or synthetic id).
type RiskFinding struct {
	// ID identifies the finding, e.g. "risk_liability_cap_missing".
	ID string `json:"id"`

	// Title is a short human-readable name.
	Title string `json:"title"`

	// Severity grades the finding. Always one of the four allowed values.
	Severity Severity `json:"severity"`

	// Finding explains what was detected.
	Finding string `json:"finding"`

	// EvidenceChunks lists chunk IDs supporting the finding.
	EvidenceChunks []string `json:"evidence_chunks"`

	// Recommendation suggests how to address the finding. Optional.
	Recommendation string `json:"recommendation,omitempty"`
}

// MissingClause records a baseline clause that the contract lacks.
// Missing clauses have no severity of their own; they are scored at the
// medium weight.
type MissingClause struct {
	// Clause names the missing clause, e.g. "Force Majeure".
	Clause string `json:"clause"`

	// Why explains the exposure created by the absence.
	Why string `json:"why"`
}

// RiskOverall is the aggregate assessment across all findings.
type RiskOverall struct {
	// Score is the average finding weight, rounded, clamped to [0,100].
	Score int `json:"score"`

	// Level is derived from Score: <20 low, <40 medium, <60 high, else critical.
	Level Severity `json:"level"`

	// Summary is a one-line description of the aggregate.
	Summary string `json:"summary"`
}

// RiskReport is the full output of one risk analysis. Reports are computed
// fresh per call and replaced wholesale, never partially mutated.
type RiskReport struct {
	// Risks are substantive exposures found in (or absent from) the text.
	Risks []RiskFinding `json:"risks"`

	// NonStandard are unusual terms worth negotiating.
	NonStandard []RiskFinding `json:"non_standard"`

	// MissingClauses are baseline clauses not found in the text.
	MissingClauses []MissingClause `json:"missing_clauses"`

	// Overall is the aggregate severity assessment.
	Overall RiskOverall `json:"overall"`
}

// FindingCount returns the number of findings across all three buckets.
func (r *RiskReport) FindingCount() int {
	return len(r.Risks) + len(r.NonStandard) + len(r.MissingClauses)
}

// Score computes the aggregate assessment from the report's buckets.
// Zero findings yield {0, low, "No significant risks identified."}.
func (r *RiskReport) Score() RiskOverall {
	count := r.FindingCount()
	if count == 0 {
		return RiskOverall{
			Score:   0,
			Level:   SeverityLow,
			Summary: "No significant risks identified.",
		}
	}

	total := 0
	for _, f := range r.Risks {
		total += f.Severity.Weight()
	}
	for _, f := range r.NonStandard {
		total += f.Severity.Weight()
	}
	// Missing clauses carry no severity and weigh medium.
	total += len(r.MissingClauses) * weightMedium

	score := int(math.Round(float64(total) / float64(count)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return RiskOverall{
		Score:   score,
		Level:   LevelForScore(score),
		Summary: fmt.Sprintf("Aggregated risk level: %s (score %d/100) across %d findings.", LevelForScore(score), score, count),
	}
}

// LevelForScore maps an aggregate score to its severity level.
func LevelForScore(score int) Severity {
	switch {
	case score < 20:
		return SeverityLow
	case score < 40:
		return SeverityMedium
	case score < 60:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}
