package flat

import (
	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// Ensure Builder implements the interface.
var _ driven.IndexBuilder = (*Builder)(nil)

// Builder constructs flat indices for the retrieval service.
type Builder struct{}

// NewBuilder creates a flat index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build validates alignment and dimensions and returns an immutable index.
func (b *Builder) Build(chunks []domain.Chunk, vectors [][]float32, language string) (driven.ContractIndex, error) {
	return NewIndex(chunks, vectors, language)
}
