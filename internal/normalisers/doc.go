// Package normalisers contains text normalisation implementations.
//
// Normalisers prepare raw extracted contract text for stable chunking and
// embedding. They are pure string transforms: no I/O, no randomness, and
// idempotent - normalising already-normalised text is a no-op.
package normalisers
