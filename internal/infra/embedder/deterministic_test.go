package embedder

import (
	"context"
	"testing"
)

func TestDeterministicEmbedderStable(t *testing.T) {
	e := NewDeterministicEmbedder(16)
	ctx := context.Background()

	first, err := e.Embed(ctx, "how can I donate")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	second, err := e.Embed(ctx, "how can I donate")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(first) != 16 {
		t.Fatalf("expected 16 dimensions, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDeterministicEmbedderDistinguishesTexts(t *testing.T) {
	e := NewDeterministicEmbedder(16)
	vectors, err := e.EmbedBatch(context.Background(), []string{"donate", "volunteer"})
	if err != nil {
		t.Fatalf("embed batch: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	same := true
	for i := range vectors[0] {
		if vectors[0][i] != vectors[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different texts to produce different vectors")
	}
}
