package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

func testHits() []domain.SearchHit {
	return []domain.SearchHit{
		{ChunkID: "c_00001", Text: "Payment is due within thirty days.", Score: 0.91, Page: 2},
		{ChunkID: "c_00004", Text: "Late payments accrue interest.", Score: 0.84, Page: 3},
		{ChunkID: "c_00009", Text: "Invoices are issued monthly.", Score: 0.7, Page: 1},
		{ChunkID: "c_00012", Text: "Fees are quoted in USD.", Score: 0.55, Page: 1},
	}
}

func TestChatService_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("empty question is invalid", func(t *testing.T) {
		svc := NewChatService(newMockRetrieval(), &mockLLM{}, nil, nil)

		_, err := svc.Ask(ctx, "   ", "doc-1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no model configured returns a stub answer", func(t *testing.T) {
		svc := NewChatService(newMockRetrieval(), nil, nil, nil)

		answer, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		require.NoError(t, err)
		assert.Contains(t, answer.Answer, "not configured")
		assert.Zero(t, answer.Confidence)
	})

	t.Run("no retrieved chunks returns a no-context answer", func(t *testing.T) {
		svc := NewChatService(newMockRetrieval(), &mockLLM{}, nil, nil)

		answer, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		require.NoError(t, err)
		assert.Contains(t, answer.Answer, "couldn't find")
		assert.Empty(t, answer.Sources)
	})

	t.Run("parses the model answer with citations", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.hits = testHits()
		llm := &mockLLM{response: `{
			"answer": "Payment is due within thirty days of invoice.",
			"citations": [{"chunk_id": "c_00001", "page": 2, "text": "Payment is due within thirty days."}],
			"confidence": 0.87
		}`}
		svc := NewChatService(retrieval, llm, nil, nil)

		answer, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		require.NoError(t, err)

		assert.Equal(t, "Payment is due within thirty days of invoice.", answer.Answer)
		require.Len(t, answer.Sources, 1)
		assert.Equal(t, "c_00001", answer.Sources[0].ChunkID)
		assert.Equal(t, 2, answer.Sources[0].Page)
		assert.InDelta(t, 0.87, answer.Confidence, 1e-9)
	})

	t.Run("confidence is clamped to the unit interval", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.hits = testHits()
		llm := &mockLLM{response: `{"answer": "Yes.", "citations": [], "confidence": 1.8}`}
		svc := NewChatService(retrieval, llm, nil, nil)

		answer, err := svc.Ask(ctx, "Is interest charged?", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 1.0, answer.Confidence)
	})

	t.Run("citations without a chunk id are skipped", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.hits = testHits()
		llm := &mockLLM{response: `{
			"answer": "Yes.",
			"citations": [{"page": 2, "text": "orphan"}, {"chunk_id": "c_00004", "page": 3, "text": "kept"}],
			"confidence": 0.5
		}`}
		svc := NewChatService(retrieval, llm, nil, nil)

		answer, err := svc.Ask(ctx, "Is interest charged?", "doc-1")
		require.NoError(t, err)
		require.Len(t, answer.Sources, 1)
		assert.Equal(t, "c_00004", answer.Sources[0].ChunkID)
	})

	t.Run("generation failure falls back to top excerpts", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.hits = testHits()
		llm := &mockLLM{err: errors.New("timeout")}
		svc := NewChatService(retrieval, llm, nil, nil)

		answer, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		require.NoError(t, err)

		assert.Zero(t, answer.Confidence)
		require.Len(t, answer.Sources, 3)
		assert.Equal(t, "c_00001", answer.Sources[0].ChunkID)
		assert.Equal(t, "c_00004", answer.Sources[1].ChunkID)
		assert.Equal(t, "c_00009", answer.Sources[2].ChunkID)
	})

	t.Run("malformed model payload falls back the same way", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.hits = testHits()
		llm := &mockLLM{response: "Payment is due in thirty days, I believe."}
		svc := NewChatService(retrieval, llm, nil, nil)

		answer, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		require.NoError(t, err)
		assert.Zero(t, answer.Confidence)
		assert.Len(t, answer.Sources, 3)
	})

	t.Run("embedding outage degrades to a no-context answer", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.searchErr = domain.ErrEmbeddingUnavailable
		svc := NewChatService(retrieval, &mockLLM{}, nil, nil)

		answer, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		require.NoError(t, err)
		assert.Contains(t, answer.Answer, "couldn't find")
	})

	t.Run("other retrieval errors propagate", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.searchErr = errors.New("index corrupt")
		svc := NewChatService(retrieval, &mockLLM{}, nil, nil)

		_, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		assert.Error(t, err)
	})

	t.Run("exchange is persisted when a store is configured", func(t *testing.T) {
		retrieval := newMockRetrieval()
		retrieval.hits = testHits()
		store := newMockContractStore()
		llm := &mockLLM{response: `{"answer": "Thirty days.", "citations": [], "confidence": 0.9}`}
		svc := NewChatService(retrieval, llm, store, nil)

		_, err := svc.Ask(ctx, "When is payment due?", "doc-1")
		require.NoError(t, err)

		require.Len(t, store.exchanges, 1)
		assert.Equal(t, "When is payment due?", store.exchanges[0].Question)
		assert.Equal(t, "doc-1", store.exchanges[0].ContractID)
		assert.NotEmpty(t, store.exchanges[0].ID)
	})
}

func TestCapSnippet(t *testing.T) {
	t.Run("short snippets pass through", func(t *testing.T) {
		assert.Equal(t, "payment terms", capSnippet("  payment\nterms  "))
	})

	t.Run("arabic text is truncated on a rune boundary", func(t *testing.T) {
		long := strings.Repeat("يلتزم المورد بالسرية ", 40)

		got := capSnippet(long)

		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len([]rune(got)), snippetMaxChars)
		assert.True(t, strings.HasSuffix(got, "…"))
	})
}
