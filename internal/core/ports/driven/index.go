package driven

import (
	"github.com/custodia-labs/contralens/internal/core/domain"
)

// ContractIndex is one contract's similarity-search structure. It owns
// the contract's chunks and their vectors, index-aligned: vector i was
// computed from chunk i.
//
// Indices are immutable after construction. Re-indexing a contract builds
// a fresh index and publishes it through the registry (copy-then-swap),
// so readers always observe either the old or the new index, never a
// partial one.
type ContractIndex interface {
	// Search returns up to k chunks ranked by descending cosine similarity
	// to the query vector. k is clamped to Len(); requesting more chunks
	// than exist returns all of them. Equal scores preserve chunk insertion
	// order.
	//
	// Returns domain.ErrDimensionMismatch when the query dimension does
	// not match the stored vectors. That is a configuration error and must
	// abort the operation.
	Search(query []float32, k int) ([]domain.SearchHit, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Dimensions returns the vector dimension of the index.
	Dimensions() int

	// Language returns the contract language the index was built with.
	Language() string
}

// IndexBuilder constructs a ContractIndex from aligned chunks and
// vectors. Splitting construction from the registry keeps services free
// of any concrete index implementation.
type IndexBuilder interface {
	// Build validates alignment and dimensions and returns an immutable
	// index. Errors with domain.ErrInvalidInput on empty or misaligned
	// input and domain.ErrDimensionMismatch on inconsistent dimensions.
	Build(chunks []domain.Chunk, vectors [][]float32, language string) (ContractIndex, error)
}

// IndexRegistry is the process-wide map from contract ID to its index.
// It lives for the lifetime of the process; indices are in-memory only
// and must be rebuilt after restart.
//
// The registry itself is safe for concurrent use. Individual indices are
// independent: concurrent builds for different contracts never interfere.
type IndexRegistry interface {
	// Put publishes an index for the contract, replacing any previous one
	// atomically.
	Put(contractID string, index ContractIndex)

	// Get returns the index for the contract, or false when none is built.
	Get(contractID string) (ContractIndex, bool)

	// Remove deletes the contract's index. Subsequent searches return
	// empty results, not an error. Reports whether an index existed.
	Remove(contractID string) bool

	// IDs returns the contract IDs with a published index.
	IDs() []string

	// Len returns the number of published indices.
	Len() int
}
