package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/contralens/internal/chunker"
	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// contextTopK is the number of hits retrieved when assembling LLM context.
const contextTopK = 8

// RetrievalService owns the chunk -> embed -> index -> search pipeline.
//
// Indices are built off to the side and published through the registry in
// one step, so a concurrent search on the same contract observes either
// the fully-old or fully-new index, never a partial one. The service
// never triggers re-indexing on its own: callers index, then search.
type RetrievalService struct {
	registry driven.IndexRegistry
	builder  driven.IndexBuilder
	embedder driven.EmbeddingService
	chunks   *chunker.Chunker
}

// NewRetrievalService creates a retrieval service.
// The embedder is optional (can be nil); without it, indexing and search
// report domain.ErrEmbeddingUnavailable.
func NewRetrievalService(
	registry driven.IndexRegistry,
	builder driven.IndexBuilder,
	embedder driven.EmbeddingService,
	chunks *chunker.Chunker,
) *RetrievalService {
	if chunks == nil {
		chunks = chunker.New()
	}
	return &RetrievalService{
		registry: registry,
		builder:  builder,
		embedder: embedder,
		chunks:   chunks,
	}
}

// IndexContract builds (or fully replaces) the vector index for a contract.
func (s *RetrievalService) IndexContract(ctx context.Context, contractID, text, language string) error {
	logger.Section("Index Contract")
	logger.Debug("Contract: %s, language: %s, text: %d bytes", contractID, language, len(text))

	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("contract %s: %w", contractID, domain.ErrEmptyText)
	}

	chunks := s.chunks.Chunk(text)
	if len(chunks) == 0 {
		return fmt.Errorf("contract %s: %w", contractID, domain.ErrEmptyText)
	}
	logger.Debug("Chunked into %d windows of ~%d words", len(chunks), s.chunks.Window())

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Batch embedding failed: %v", err)
		return fmt.Errorf("embed contract %s: %w", contractID, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks: %w",
			len(vectors), len(chunks), domain.ErrInvalidInput)
	}

	index, err := s.builder.Build(chunks, vectors, language)
	if err != nil {
		return fmt.Errorf("build index for contract %s: %w", contractID, err)
	}

	// Publish in one step; replaces any previous index atomically.
	s.registry.Put(contractID, index)
	logger.Info("Indexed contract %s: %d chunks, %d dimensions", contractID, index.Len(), index.Dimensions())
	return nil
}

// SearchContract returns the topK most similar chunks within one contract.
func (s *RetrievalService) SearchContract(ctx context.Context, contractID, query string, topK int) ([]domain.SearchHit, error) {
	logger.Section("Search Contract")
	logger.Debug("Contract: %s, query: %q, top_k: %d", contractID, query, topK)

	index, ok := s.registry.Get(contractID)
	if !ok {
		// No index is not an error: the contract is simply not searchable.
		logger.Debug("No index for contract %s", contractID)
		return []domain.SearchHit{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := index.Search(queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("search contract %s: %w", contractID, err)
	}

	logger.Debug("Found %d hits", len(hits))
	return hits, nil
}

// SearchAll returns the topK most similar chunks across every indexed
// contract. The query is embedded once; each index is asked for topK
// candidates so a single highly-relevant contract cannot be starved of
// representation before the global truncation.
func (s *RetrievalService) SearchAll(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	logger.Section("Search All Contracts")
	logger.Debug("Query: %q, top_k: %d", query, topK)

	ids := s.registry.IDs()
	if len(ids) == 0 {
		return []domain.SearchHit{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var all []domain.SearchHit
	for _, id := range ids {
		index, ok := s.registry.Get(id)
		if !ok {
			// Removed between IDs() and Get(); skip.
			continue
		}

		hits, err := index.Search(queryVec, topK)
		if err != nil {
			return nil, fmt.Errorf("search contract %s: %w", id, err)
		}
		for i := range hits {
			hits[i].ContractID = id
		}
		all = append(all, hits...)
	}

	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Score > all[b].Score
	})
	if len(all) > topK {
		all = all[:topK]
	}

	logger.Debug("Merged to %d hits across %d contracts", len(all), len(ids))
	return all, nil
}

// AssembleContext retrieves top chunks and concatenates them into an LLM
// context string. Blocks are added in score order until the next block
// would exceed maxChars; truncation is block-level, never mid-chunk.
func (s *RetrievalService) AssembleContext(ctx context.Context, contractID, query string, maxChars int) (string, error) {
	hits, err := s.SearchContract(ctx, contractID, query, contextTopK)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", nil
	}

	var blocks []string
	total := 0
	for _, hit := range hits {
		block := fmt.Sprintf("[%s] (p.%d): %s", hit.ChunkID, hit.Page, strings.TrimSpace(hit.Text))
		// +2 accounts for the joining blank line.
		if total+len(block)+2 > maxChars {
			break
		}
		blocks = append(blocks, block)
		total += len(block) + 2
	}

	return strings.Join(blocks, "\n\n"), nil
}

// RemoveContract drops the contract's index.
func (s *RetrievalService) RemoveContract(_ context.Context, contractID string) bool {
	removed := s.registry.Remove(contractID)
	logger.Debug("Removed index for contract %s: %t", contractID, removed)
	return removed
}

// IsIndexed reports whether the contract currently has an index.
func (s *RetrievalService) IsIndexed(contractID string) bool {
	_, ok := s.registry.Get(contractID)
	return ok
}
