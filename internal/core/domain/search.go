package domain

// SearchHit represents a single scored chunk from similarity search.
// Hits are produced fresh per query and never persisted.
type SearchHit struct {
	// ContractID identifies the contract the chunk belongs to.
	// Empty for single-contract searches where the caller already knows it.
	ContractID string `json:"contract_id,omitempty"`

	// ChunkID is the matched chunk, scoped to ContractID.
	ChunkID string `json:"chunk_id"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Score is the cosine similarity between query and chunk vectors.
	Score float64 `json:"score"`

	// Page is the page number carried over from the chunk.
	Page int `json:"page"`

	// Section is the chunk's section heading, when detected.
	Section *string `json:"section"`
}
