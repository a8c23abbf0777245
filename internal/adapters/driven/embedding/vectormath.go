// Package embedding holds helpers shared by the embedding service
// adapters. Every adapter returns unit-length vectors so the flat index
// can treat inner product as cosine similarity.
package embedding

import "math"

// Normalise scales the vector to unit length in place and returns it.
// The all-zero vector is returned unchanged; it matches nothing.
func Normalise(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
