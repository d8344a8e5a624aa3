package embedder

import (
	"context"
	"hash/fnv"

	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
)

// DeterministicEmbedder avoids network calls by hashing text into a vector.
// Identical texts always embed to the identical vector, which is what the
// matcher tests and local development need.
type DeterministicEmbedder struct {
	dim int
}

// NewDeterministicEmbedder constructs the embedder.
func NewDeterministicEmbedder(dim int) *DeterministicEmbedder {
	if dim <= 0 {
		dim = 32
	}
	return &DeterministicEmbedder{dim: dim}
}

// Embed converts a text into a pseudo-random vector.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

// EmbedBatch converts each text into a pseudo-random vector.
func (e *DeterministicEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.vector(text)
	}
	return vectors, nil
}

func (e *DeterministicEmbedder) vector(text string) []float32 {
	vector := make([]float32, e.dim)
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(text))
	seed := hash.Sum64()
	for j := 0; j < e.dim; j++ {
		seed = seed*1099511628211 + 1469598103934665603
		vector[j] = float32(seed%997) / 997.0
	}
	return vector
}

var (
	_ faq.Embedder          = (*DeterministicEmbedder)(nil)
	_ catalog.BatchEmbedder = (*DeterministicEmbedder)(nil)
)
