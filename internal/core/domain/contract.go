package domain

import "time"

// Contract represents an ingested contract with metadata.
// The Text field holds the full normalised text, before chunking.
type Contract struct {
	// ID is the unique identifier for the contract.
	ID string

	// Title is the human-readable title (usually the file name).
	Title string

	// Filename is the original file the text was extracted from.
	Filename string

	// Language is the contract language code ("en", "ar", ...).
	Language string

	// Text is the full normalised contract text.
	Text string

	// Indexed reports whether a vector index is currently built for
	// this contract. Indices are in-memory only, so the flag is derived
	// from the registry at read time and never persisted.
	Indexed bool

	// CreatedAt is when the contract was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the contract was last re-ingested.
	UpdatedAt time.Time
}

// Chunk is a bounded, overlapping slice of a contract's normalised text.
// It is the unit of embedding and retrieval.
//
// Chunks are immutable once created and owned by the index that built
// them. IDs are stable and monotonic within one contract but NOT globally
// unique; callers must scope them by contract ID.
type Chunk struct {
	// ID is the chunk identifier, e.g. "c_00042".
	ID string `json:"chunk_id"`

	// Page is the page number the chunk starts on (0 when unknown).
	Page int `json:"page"`

	// Section is the heading the chunk falls under, when detected.
	Section *string `json:"section"`

	// Text is the chunk content. Never empty.
	Text string `json:"text"`
}
