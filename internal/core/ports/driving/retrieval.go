package driving

import (
	"context"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// RetrievalService owns the chunk -> embed -> index -> search pipeline.
//
// Callers must index a contract before searching it; searching an
// unindexed contract yields empty results, never an error.
type RetrievalService interface {
	// IndexContract builds (or fully replaces) the vector index for a
	// contract from its normalised text. Returns
	// domain.ErrEmbeddingUnavailable when no embedding backend is
	// configured or reachable, and domain.ErrEmptyText for text with no
	// words.
	IndexContract(ctx context.Context, contractID, text, language string) error

	// SearchContract returns the topK most similar chunks within one
	// contract. An unindexed contract returns an empty slice.
	SearchContract(ctx context.Context, contractID, query string, topK int) ([]domain.SearchHit, error)

	// SearchAll returns the topK most similar chunks across every indexed
	// contract, globally ranked by score. Hits carry their ContractID.
	SearchAll(ctx context.Context, query string, topK int) ([]domain.SearchHit, error)

	// AssembleContext retrieves top chunks for the query and concatenates
	// "[chunk_id] (p.page): text" blocks in score order until the next
	// block would exceed maxChars. Truncation is block-level, never
	// mid-chunk. Returns "" when the contract has no index or no hits.
	AssembleContext(ctx context.Context, contractID, query string, maxChars int) (string, error)

	// RemoveContract drops the contract's index. Reports whether an index
	// existed.
	RemoveContract(ctx context.Context, contractID string) bool

	// IsIndexed reports whether the contract currently has an index.
	IsIndexed(contractID string) bool
}
