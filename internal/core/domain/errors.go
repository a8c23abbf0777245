package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyText indicates a contract with no indexable text.
	// Indexing an empty contract is rejected, not silently skipped.
	ErrEmptyText = errors.New("empty contract text")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Callers treat this as "no index, no
	// search results" for the affected contract rather than a fatal error.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generative service is not configured.
	// Chat, model critique and summarisation degrade to deterministic output.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrGenerativeCallFailed indicates a generative call failed at runtime
	// (timeout, quota, malformed response). Each pipeline recovers locally;
	// this error never propagates out of a service.
	ErrGenerativeCallFailed = errors.New("generative call failed")

	// ErrDimensionMismatch indicates a query vector does not match the
	// dimension of a stored index. This is a configuration error (embedding
	// model swapped without reindexing) and is NOT recoverable.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
