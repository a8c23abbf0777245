package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, indexing and semantic search
// are disabled.
//
// All returned vectors are L2-normalised to unit length, so the inner
// product of two vectors is their cosine similarity. The dimension is
// fixed for the lifetime of the process; mixing dimensions in one index
// is a configuration error.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a unit-length embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// The result is index-aligned with the input: result[i] was computed
	// from texts[i].
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
