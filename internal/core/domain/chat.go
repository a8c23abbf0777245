package domain

import "time"

// Citation points at the contract text supporting an answer.
type Citation struct {
	// ChunkID is the cited chunk, scoped to the contract it came from.
	ChunkID string `json:"chunk_id"`

	// Page is the page the cited chunk starts on.
	Page int `json:"page"`

	// Snippet is the minimal quoted text supporting the answer.
	Snippet string `json:"snippet"`
}

// Answer is the result of one Q&A exchange.
type Answer struct {
	// Answer is the generated response, grounded in retrieved chunks.
	Answer string `json:"answer"`

	// Sources cites the chunks the answer was grounded in. When generation
	// fails these are the raw top retrieved excerpts instead.
	Sources []Citation `json:"sources"`

	// Confidence is the model's self-reported confidence in [0,1].
	// Zero when the answer is a retrieval-only fallback.
	Confidence float64 `json:"confidence"`
}

// Exchange is a persisted question/answer pair.
type Exchange struct {
	// ID is the unique identifier for the exchange.
	ID string

	// ContractID scopes the exchange to one contract. Empty for
	// cross-contract questions.
	ContractID string

	// Question is the user's question.
	Question string

	// Answer is the response that was returned.
	Answer Answer

	// AskedAt is when the question was asked.
	AskedAt time.Time
}
