package faq

import (
	"math"
	"testing"
)

func TestEncodeDecodeEmbedding(t *testing.T) {
	vec := []float32{1.5, -2.25, 0, 3.75}
	blob := EncodeEmbedding(vec)
	if len(blob) != len(vec)*4 {
		t.Fatalf("expected %d bytes got %d", len(vec)*4, len(blob))
	}

	decoded, err := DecodeEmbedding(blob, len(vec))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Fatalf("index %d: expected %v got %v", i, vec[i], decoded[i])
		}
	}
}

func TestDecodeEmbeddingRejectsWrongLength(t *testing.T) {
	if _, err := DecodeEmbedding(make([]byte, 15), 4); err == nil {
		t.Fatal("expected error for truncated blob")
	}
	if _, err := DecodeEmbedding(nil, 4); err == nil {
		t.Fatal("expected error for empty blob")
	}
}

func TestCosineSimilarityIdenticalVector(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	sim := CosineSimilarity(v, v)
	if math.Abs(sim-1) > 1e-9 {
		t.Fatalf("expected 1.0 for identical vectors, got %v", sim)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}
	if sim := CosineSimilarity(a, b); math.Abs(sim) > 1e-9 {
		t.Fatalf("expected 0 for orthogonal vectors, got %v", sim)
	}
}

func TestCosineSimilarityBoundsAndSymmetry(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 2, 3}, {-1, -2, -3}},
		{{0.5, 0.5}, {0.5, -0.5}},
		{{3, 4}, {4, 3}},
	}
	for _, p := range pairs {
		ab := CosineSimilarity(p[0], p[1])
		ba := CosineSimilarity(p[1], p[0])
		if ab < -1 || ab > 1 {
			t.Fatalf("similarity %v out of [-1,1]", ab)
		}
		if math.Abs(ab-ba) > 1e-12 {
			t.Fatalf("similarity not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	if sim := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3}); sim != -1 {
		t.Fatalf("expected -1 for zero-norm operand, got %v", sim)
	}
}

func TestCosineSimilarityNonFiniteComponents(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	vectors := [][]float32{
		{nan, 0, 0},
		{1, nan, 0},
		{inf, 0, 0},
		{1, inf, 1},
	}
	query := []float32{1, 0, 0}
	for _, v := range vectors {
		sim := CosineSimilarity(query, v)
		if math.IsNaN(sim) || sim < -1 || sim > 1 {
			t.Fatalf("vector %v scored %v, want a finite value in [-1,1]", v, sim)
		}
	}
}
