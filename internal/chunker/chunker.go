// Package chunker splits normalised contract text into overlapping
// word-window chunks, the unit of embedding and retrieval.
package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/contralens/internal/core/domain"
)

// DefaultWindow is the default number of words per chunk. Word count
// approximates token count closely enough for retrieval purposes.
const DefaultWindow = 220

// DefaultOverlap is the default number of words shared between
// consecutive chunks.
const DefaultOverlap = 30

// Chunker produces deterministic overlapping word windows.
// Identical input and parameters always produce an identical chunk
// sequence: splitting is whitespace-based and locale-independent.
type Chunker struct {
	window  int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithWindow sets the window size in words.
func WithWindow(words int) Option {
	return func(c *Chunker) {
		if words > 0 {
			c.window = words
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in words.
func WithOverlap(words int) Option {
	return func(c *Chunker) {
		if words >= 0 {
			c.overlap = words
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		window:  DefaultWindow,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave a positive stride.
	if c.overlap >= c.window {
		c.overlap = c.window / 4
	}

	return c
}

// Window returns the configured window size in words.
func (c *Chunker) Window() int {
	return c.window
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into overlapping word windows. The window advances by
// stride = max(1, window-overlap) words each step; a trailing partial
// window is kept as the final chunk. Empty input (no words) yields nil.
//
// Chunk IDs are zero-padded sequential ("c_00000", "c_00001", ...) and
// restart at zero on every call: they are unique within one contract only
// and must be scoped by contract ID by callers.
func (c *Chunker) Chunk(text string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.window - c.overlap
	if stride < 1 {
		stride = 1
	}

	chunks := make([]domain.Chunk, 0, len(words)/stride+1)
	id := 0

	for i := 0; i < len(words); i += stride {
		end := i + c.window
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, domain.Chunk{
			ID:   fmt.Sprintf("c_%05d", id),
			Page: 0,
			// Section detection is not implemented yet; headings in OCR'd
			// contracts are too unreliable to split on.
			Section: nil,
			Text:    strings.Join(words[i:end], " "),
		})
		id++
	}

	return chunks
}
