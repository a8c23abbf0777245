package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

func extractionContract() *domain.Contract {
	return &domain.Contract{
		ID:       "doc-1",
		Title:    "Master Services Agreement",
		Language: "en",
		Text: "This Agreement is between Acme Corp and Widget Ltd. WHEREAS the parties wish to contract, " +
			"the total fee is USD 50,000 payable quarterly. Governing Law: England and Wales.",
	}
}

func TestHeuristicExtraction(t *testing.T) {
	t.Run("finds the parties preamble", func(t *testing.T) {
		text := "This Agreement is made by and between Acme Corp (the Customer) and Widget Ltd (the Supplier). " +
			"NOW, THEREFORE the parties agree as follows."

		extracted := heuristicExtraction(text)

		require.Contains(t, extracted, "parties")
		assert.Contains(t, extracted["parties"], "Acme Corp")
		assert.Contains(t, extracted["parties"], "Widget Ltd")
	})

	t.Run("finds the governing law", func(t *testing.T) {
		extracted := heuristicExtraction("Governing Law: the laws of Qatar\nVenue: Doha")

		assert.Equal(t, "the laws of Qatar", extracted["governing_law"])
	})

	t.Run("collects distinct amounts in document order", func(t *testing.T) {
		text := "The fee is QAR 100,000 payable monthly. A penalty of $5,000.50 applies. " +
			"Deposit: ر.ق 250. The fee is QAR 100,000."

		extracted := heuristicExtraction(text)

		amounts, ok := extracted["amounts"].([]string)
		require.True(t, ok)
		assert.Equal(t, []string{"QAR 100,000", "$5,000.50", "ر.ق 250"}, amounts)
	})

	t.Run("plain text yields nothing", func(t *testing.T) {
		assert.Empty(t, heuristicExtraction("The supplier shall deliver the services on time."))
	})
}

func TestExtractionService_Extract(t *testing.T) {
	ctx := context.Background()

	t.Run("nil contract yields an empty map", func(t *testing.T) {
		svc := NewExtractionService(nil, nil)

		assert.Empty(t, svc.Extract(ctx, nil))
	})

	t.Run("without model returns the heuristic layer", func(t *testing.T) {
		svc := NewExtractionService(nil, nil)

		extracted := svc.Extract(ctx, extractionContract())

		assert.Contains(t, extracted["parties"], "Acme Corp")
		assert.Equal(t, "England and Wales", extracted["governing_law"])
		assert.Equal(t, []string{"USD 50,000"}, extracted["amounts"])
	})

	t.Run("model fields win and heuristics backfill the rest", func(t *testing.T) {
		llm := &mockLLM{response: `{
			"parties": "Acme Corp; Widget Ltd",
			"term": "12 months",
			"amounts": ["USD 50,000", "USD 1,000"]
		}`}
		svc := NewExtractionService(llm, nil)

		extracted := svc.Extract(ctx, extractionContract())

		assert.Equal(t, "Acme Corp; Widget Ltd", extracted["parties"])
		assert.Equal(t, "12 months", extracted["term"])
		// The model left governing_law empty; the heuristic fills it.
		assert.Equal(t, "England and Wales", extracted["governing_law"])
		assert.Equal(t, []string{"USD 50,000", "USD 1,000"}, extracted["amounts"])
	})

	t.Run("model failure falls back to heuristics", func(t *testing.T) {
		llm := &mockLLM{err: errors.New("rate limited")}
		svc := NewExtractionService(llm, nil)

		extracted := svc.Extract(ctx, extractionContract())

		assert.Contains(t, extracted["parties"], "Acme Corp")
		assert.Equal(t, "England and Wales", extracted["governing_law"])
	})

	t.Run("malformed model payload falls back too", func(t *testing.T) {
		llm := &mockLLM{response: "not json at all"}
		svc := NewExtractionService(llm, nil)

		extracted := svc.Extract(ctx, extractionContract())

		assert.Contains(t, extracted["parties"], "Acme Corp")
	})
}
