package embedder

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
)

const (
	// maxBatchTokens keeps each API call under the model's input limit.
	maxBatchTokens = 8000
	maxBatchInputs = 96
)

// HTTPEmbedder produces sentence embeddings through an OpenAI-compatible API.
type HTTPEmbedder struct {
	client    *Client
	model     string
	dim       int
	tokenizer *tiktoken.Tiktoken
}

// NewHTTPEmbedder constructs an embedder bound to one model and dimension.
func NewHTTPEmbedder(client *Client, model string, dim int) (*HTTPEmbedder, error) {
	if client == nil {
		return nil, fmt.Errorf("embeddings client is required")
	}
	if model == "" {
		return nil, fmt.Errorf("embeddings model is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dim)
	}
	tokenizer, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return &HTTPEmbedder{
		client:    client,
		model:     model,
		dim:       dim,
		tokenizer: tokenizer,
	}, nil
}

// Embed returns the vector for a single text.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns vectors for all texts, preserving input order.
// Inputs are grouped into API calls bounded by token and count budgets.
func (e *HTTPEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors := make([][]float32, len(texts))

	cost := func(text string) int {
		return len(e.tokenizer.Encode(text, nil, nil))
	}
	for _, span := range batchSpans(texts, cost) {
		if err := e.embedChunk(ctx, texts[span[0]:span[1]], vectors[span[0]:span[1]]); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// batchSpans groups inputs into contiguous [start, end) spans bounded by
// the token and count budgets. A single input over the token budget still
// gets a span of its own.
func batchSpans(texts []string, cost func(string) int) [][2]int {
	var spans [][2]int
	start := 0
	for start < len(texts) {
		end := start
		budget := 0
		for end < len(texts) && end-start < maxBatchInputs {
			c := cost(texts[end])
			if end > start && budget+c > maxBatchTokens {
				break
			}
			budget += c
			end++
		}
		spans = append(spans, [2]int{start, end})
		start = end
	}
	return spans
}

func (e *HTTPEmbedder) embedChunk(ctx context.Context, texts []string, out [][]float32) error {
	resp, err := e.client.CreateEmbeddings(ctx, EmbeddingRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return err
	}
	if len(resp.Data) != len(texts) {
		return fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(out) {
			return fmt.Errorf("embeddings response index %d out of range", item.Index)
		}
		if len(item.Embedding) != e.dim {
			return fmt.Errorf("embedding has dimension %d, want %d", len(item.Embedding), e.dim)
		}
		out[item.Index] = item.Embedding
	}
	for i, vector := range out {
		if vector == nil {
			return fmt.Errorf("embeddings response missing vector for input %d", i)
		}
	}
	return nil
}

var (
	_ faq.Embedder          = (*HTTPEmbedder)(nil)
	_ catalog.BatchEmbedder = (*HTTPEmbedder)(nil)
)
