package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
	}{
		{"low", SeverityLow},
		{"medium", SeverityMedium},
		{"high", SeverityHigh},
		{"critical", SeverityCritical},
		{"HIGH", SeverityHigh},
		{"  Critical ", SeverityCritical},
		{"", SeverityMedium},
		{"severe", SeverityMedium},
		{"catastrophic", SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeverity(tt.input))
		})
	}
}

func TestSeverity_Weight(t *testing.T) {
	assert.Equal(t, 10, SeverityLow.Weight())
	assert.Equal(t, 25, SeverityMedium.Weight())
	assert.Equal(t, 45, SeverityHigh.Weight())
	assert.Equal(t, 70, SeverityCritical.Weight())

	// Unknown severities fall back to the medium weight.
	assert.Equal(t, 25, Severity("whatever").Weight())
}

func TestRiskReport_Score_Empty(t *testing.T) {
	var report RiskReport
	overall := report.Score()

	assert.Equal(t, 0, overall.Score)
	assert.Equal(t, SeverityLow, overall.Level)
	assert.Equal(t, "No significant risks identified.", overall.Summary)
}

func TestRiskReport_Score_Average(t *testing.T) {
	// high(45) + high(45) + critical(70) = 160 / 3 = 53.33 -> 53 -> high.
	report := RiskReport{
		Risks: []RiskFinding{
			{ID: "r1", Severity: SeverityHigh},
			{ID: "r2", Severity: SeverityHigh},
			{ID: "r3", Severity: SeverityCritical},
		},
	}

	overall := report.Score()
	assert.Equal(t, 53, overall.Score)
	assert.Equal(t, SeverityHigh, overall.Level)
	assert.Contains(t, overall.Summary, "3 findings")
}

func TestRiskReport_Score_MissingClausesWeighMedium(t *testing.T) {
	report := RiskReport{
		MissingClauses: []MissingClause{
			{Clause: "Force Majeure"},
			{Clause: "Indemnification"},
		},
	}

	overall := report.Score()
	assert.Equal(t, 25, overall.Score)
	assert.Equal(t, SeverityMedium, overall.Level)
}

func TestRiskReport_Score_Bounds(t *testing.T) {
	// All-critical reports stay within [0,100].
	report := RiskReport{
		Risks: []RiskFinding{
			{Severity: SeverityCritical},
			{Severity: SeverityCritical},
		},
		NonStandard: []RiskFinding{
			{Severity: SeverityCritical},
		},
	}

	overall := report.Score()
	assert.GreaterOrEqual(t, overall.Score, 0)
	assert.LessOrEqual(t, overall.Score, 100)
	assert.Equal(t, 70, overall.Score)
	assert.Equal(t, SeverityCritical, overall.Level)
}

func TestLevelForScore_Thresholds(t *testing.T) {
	tests := []struct {
		score int
		want  Severity
	}{
		{0, SeverityLow},
		{19, SeverityLow},
		{20, SeverityMedium},
		{39, SeverityMedium},
		{40, SeverityHigh},
		{59, SeverityHigh},
		{60, SeverityCritical},
		{100, SeverityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestRiskReport_FindingCount(t *testing.T) {
	report := RiskReport{
		Risks:          []RiskFinding{{ID: "a"}},
		NonStandard:    []RiskFinding{{ID: "b"}, {ID: "c"}},
		MissingClauses: []MissingClause{{Clause: "IP"}},
	}
	assert.Equal(t, 4, report.FindingCount())
}
