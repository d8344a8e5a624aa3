package faq

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Embeddings are stored as D little-endian IEEE-754 float32 values
// concatenated with no header. Every producer and consumer shares this
// layout; a blob whose length is not D*4 is corrupt.

// EncodeEmbedding serializes a vector into its at-rest byte layout.
func EncodeEmbedding(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeEmbedding parses a stored blob, enforcing the expected dimension.
func DecodeEmbedding(blob []byte, dim int) ([]float32, error) {
	if len(blob) != dim*4 {
		return nil, fmt.Errorf("embedding blob is %d bytes, expected %d", len(blob), dim*4)
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}

// CosineSimilarity computes dot(a,b)/(|a|*|b|) accumulating in float64 so
// scores near the acceptance threshold stay stable. A zero-norm operand
// scores -1: maximally dissimilar, never a division by zero. A NaN score
// also collapses to -1, so a corrupt vector can never outrank a real
// candidate or poison later comparisons. The result is always a finite
// value in [-1, 1].
func CosineSimilarity(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return -1
	}
	// clamp accumulated rounding back into the cosine range
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
