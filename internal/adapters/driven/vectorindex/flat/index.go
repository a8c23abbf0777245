// Package flat provides an exact flat inner-product vector index.
//
// Every stored vector is compared against the query (no approximation,
// no graph structure). At single-contract scale - hundreds of chunks,
// not millions - exactness matters more than sub-linear scaling, and a
// flat scan is both correct and fast enough.
package flat

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.ContractIndex = (*Index)(nil)

// Index is one contract's immutable similarity-search structure.
// Chunks and vectors are index-aligned: vectors[i] was computed from
// chunks[i].Text. Vectors are unit length, so the inner product with a
// unit query vector is their cosine similarity.
type Index struct {
	chunks   []domain.Chunk
	vectors  [][]float32
	dims     int
	language string
}

// NewIndex builds an index over aligned chunks and vectors.
// Returns domain.ErrInvalidInput when the slices are empty or misaligned,
// and domain.ErrDimensionMismatch when vectors disagree on dimension.
func NewIndex(chunks []domain.Chunk, vectors [][]float32, language string) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("flat: no chunks: %w", domain.ErrInvalidInput)
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("flat: %d chunks but %d vectors: %w",
			len(chunks), len(vectors), domain.ErrInvalidInput)
	}

	dims := len(vectors[0])
	if dims == 0 {
		return nil, fmt.Errorf("flat: zero-dimension vector: %w", domain.ErrInvalidInput)
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("flat: vector %d has dimension %d, index has %d: %w",
				i, len(v), dims, domain.ErrDimensionMismatch)
		}
	}

	// Copy both slices so later caller mutations cannot reach into a
	// published index.
	ownChunks := make([]domain.Chunk, len(chunks))
	copy(ownChunks, chunks)
	ownVectors := make([][]float32, len(vectors))
	copy(ownVectors, vectors)

	return &Index{
		chunks:   ownChunks,
		vectors:  ownVectors,
		dims:     dims,
		language: language,
	}, nil
}

// Search returns up to k chunks ranked by descending inner product with
// the query. k is clamped to the number of chunks. Equal scores preserve
// chunk insertion order.
func (idx *Index) Search(query []float32, k int) ([]domain.SearchHit, error) {
	if len(query) != idx.dims {
		return nil, fmt.Errorf("flat: query dimension %d, index dimension %d: %w",
			len(query), idx.dims, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}
	if k > len(idx.chunks) {
		k = len(idx.chunks)
	}

	type scored struct {
		pos   int
		score float64
	}

	all := make([]scored, len(idx.vectors))
	for i, v := range idx.vectors {
		all[i] = scored{pos: i, score: dot(query, v)}
	}

	sort.SliceStable(all, func(a, b int) bool {
		return all[a].score > all[b].score
	})

	hits := make([]domain.SearchHit, k)
	for i := 0; i < k; i++ {
		c := idx.chunks[all[i].pos]
		hits[i] = domain.SearchHit{
			ChunkID: c.ID,
			Text:    c.Text,
			Score:   all[i].score,
			Page:    c.Page,
			Section: c.Section,
		}
	}

	return hits, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Dimensions returns the vector dimension of the index.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// Language returns the contract language the index was built with.
func (idx *Index) Language() string {
	return idx.language
}

// dot computes the inner product in float64 to limit accumulation error.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
