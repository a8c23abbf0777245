package driving

import (
	"context"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// ContractService manages the contract lifecycle: ingestion, listing
// and removal. It is the entry point the upload/OCR collaborator calls
// once text extraction is done.
type ContractService interface {
	// Add ingests already-extracted contract text: normalises it, persists
	// the metadata, and builds the vector index. When the embedding
	// backend is unavailable the contract is still persisted and the
	// returned contract has Indexed=false.
	Add(ctx context.Context, title, filename, language, text string) (*domain.Contract, error)

	// Get retrieves a contract by ID. The Indexed flag reflects the live
	// index registry, not what storage recorded.
	Get(ctx context.Context, id string) (*domain.Contract, error)

	// List returns all contracts, newest first. Indexed flags reflect the
	// live index registry.
	List(ctx context.Context) ([]domain.Contract, error)

	// Remove deletes a contract from the store and drops its index.
	Remove(ctx context.Context, id string) error

	// Reindex rebuilds the vector index from the stored text. Used after
	// restart, since indices are in-memory only.
	Reindex(ctx context.Context, id string) error
}
