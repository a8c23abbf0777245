package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

func TestRiskService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("without model returns deterministic layer only", func(t *testing.T) {
		svc := NewRiskService(nil, nil)

		report, err := svc.Analyze(ctx, "doc-1", "plain text with no clauses", "en", nil)
		require.NoError(t, err)

		assert.NotEmpty(t, report.Risks)
		assert.Equal(t, report.Score(), report.Overall)
		assert.NotEmpty(t, report.Overall.Summary)
	})

	t.Run("deterministic layer is reproducible", func(t *testing.T) {
		svc := NewRiskService(nil, nil)
		text := "Some agreement without a liability section."

		first, err := svc.Analyze(ctx, "doc-1", text, "en", nil)
		require.NoError(t, err)
		second, err := svc.Analyze(ctx, "doc-1", text, "en", nil)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("model findings are appended after the rule layer", func(t *testing.T) {
		llm := &mockLLM{response: `{
			"risks": [{"id": "model_1", "title": "Auto-renewal", "severity": "high", "finding": "Contract renews silently."}],
			"non_standard": [],
			"missing_clauses": [{"clause": "Insurance", "why": "No insurance obligations."}]
		}`}
		svc := NewRiskService(llm, nil)

		report, err := svc.Analyze(ctx, "doc-1", completeContract, "en", nil)
		require.NoError(t, err)

		// The complete contract produces no rule findings, so the model
		// layer is all there is.
		require.Len(t, report.Risks, 1)
		assert.Equal(t, "model_1", report.Risks[0].ID)
		require.Len(t, report.MissingClauses, 1)
		assert.Equal(t, "Insurance", report.MissingClauses[0].Clause)
	})

	t.Run("rule findings precede model findings", func(t *testing.T) {
		llm := &mockLLM{response: `{
			"risks": [{"title": "Model finding", "severity": "low", "finding": "Something."}]
		}`}
		svc := NewRiskService(llm, nil)

		report, err := svc.Analyze(ctx, "doc-1", "no clauses at all", "en", nil)
		require.NoError(t, err)

		require.GreaterOrEqual(t, len(report.Risks), 3)
		assert.Equal(t, "risk_liability_cap_missing", report.Risks[0].ID)
		assert.Equal(t, "Model finding", report.Risks[len(report.Risks)-1].Title)
	})

	t.Run("model failure degrades to a synthetic finding", func(t *testing.T) {
		llm := &mockLLM{err: errors.New("connection refused")}
		svc := NewRiskService(llm, nil)

		report, err := svc.Analyze(ctx, "doc-1", completeContract, "en", nil)
		require.NoError(t, err)

		require.Len(t, report.Risks, 1)
		assert.Equal(t, "risk_llm_error", report.Risks[0].ID)
		assert.Equal(t, domain.SeverityLow, report.Risks[0].Severity)
		assert.Equal(t, domain.SeverityLow, report.Overall.Level)
	})

	t.Run("malformed model payload degrades the same way", func(t *testing.T) {
		llm := &mockLLM{response: "I think this contract looks fine overall."}
		svc := NewRiskService(llm, nil)

		report, err := svc.Analyze(ctx, "doc-1", completeContract, "en", nil)
		require.NoError(t, err)

		require.Len(t, report.Risks, 1)
		assert.Equal(t, "risk_llm_error", report.Risks[0].ID)
	})

	t.Run("fenced JSON is accepted", func(t *testing.T) {
		llm := &mockLLM{response: "```json\n{\"risks\": [{\"title\": \"Fenced\", \"severity\": \"medium\", \"finding\": \"Found it.\"}]}\n```"}
		svc := NewRiskService(llm, nil)

		report, err := svc.Analyze(ctx, "doc-1", completeContract, "en", nil)
		require.NoError(t, err)

		require.Len(t, report.Risks, 1)
		assert.Equal(t, "Fenced", report.Risks[0].Title)
	})

	t.Run("custom prompt from the store is used", func(t *testing.T) {
		llm := &mockLLM{response: `{"risks": []}`}
		prompts := &mockPromptStore{prompts: map[string]string{
			"risk_system": "CUSTOM RISK PROMPT",
		}}
		svc := NewRiskService(llm, prompts)

		_, err := svc.Analyze(ctx, "doc-1", completeContract, "en", nil)
		require.NoError(t, err)
		assert.Contains(t, llm.lastPrompt, "CUSTOM RISK PROMPT")
	})

	t.Run("overall score follows the severity weights", func(t *testing.T) {
		llm := &mockLLM{response: `{
			"risks": [
				{"title": "A", "severity": "high", "finding": "a"},
				{"title": "B", "severity": "high", "finding": "b"},
				{"title": "C", "severity": "critical", "finding": "c"}
			]
		}`}
		svc := NewRiskService(llm, nil)

		report, err := svc.Analyze(ctx, "doc-1", completeContract, "en", nil)
		require.NoError(t, err)

		// (45+45+70)/3 = 53.33 rounds to 53, which is level high.
		assert.Equal(t, 53, report.Overall.Score)
		assert.Equal(t, domain.SeverityHigh, report.Overall.Level)
	})
}
