package driving

import (
	"context"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// ChatService answers natural-language questions about contracts.
type ChatService interface {
	// Ask answers a question grounded in retrieved chunks. A non-empty
	// contractID scopes retrieval to that contract; an empty one searches
	// across all indexed contracts. A generative failure falls back to the
	// raw top excerpts as sources with confidence 0.
	Ask(ctx context.Context, question, contractID string) (*domain.Answer, error)
}
