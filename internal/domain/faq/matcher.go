package faq

import (
	"context"
	"log/slog"
)

// Matcher scores a query vector against the stored corpus with an
// exhaustive linear scan. Corpus sizes are hundreds to low thousands of
// variants, so no index structure is warranted.
type Matcher struct {
	dim    int
	logger *slog.Logger
}

// NewMatcher constructs a matcher for embeddings of the given dimension.
func NewMatcher(dim int, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{dim: dim, logger: logger.With("component", "faq.matcher")}
}

// FindBestMatch returns the single highest-similarity candidate, regardless
// of any acceptance threshold: accept/reject is the caller's policy.
//
// Malformed embeddings are skipped and counted, never fatal. An empty or
// all-invalid corpus yields OutcomeEmptyCorpus. Exact similarity ties break
// on the lowest variant ID so results are stable across runs. The only
// error returned is context cancellation, checked between candidates.
func (m *Matcher) FindBestMatch(ctx context.Context, query []float32, corpus []VariantRow) (MatchResult, error) {
	var (
		best    MatchResult
		found   bool
		skipped int
	)

	for i, candidate := range corpus {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return MatchResult{}, err
			}
		}

		vec, err := DecodeEmbedding(candidate.Embedding, m.dim)
		if err != nil {
			skipped++
			m.logger.Warn("skipping malformed variant embedding", "variant_id", candidate.VariantID, "error", err)
			continue
		}

		sim := CosineSimilarity(query, vec)
		if !found || sim > best.Similarity || (sim == best.Similarity && candidate.VariantID < best.VariantID) {
			found = true
			best = MatchResult{
				Outcome:     OutcomeMatched,
				VariantID:   candidate.VariantID,
				CanonicalID: candidate.CanonicalID,
				AnswerID:    candidate.AnswerID,
				Intent:      candidate.Intent,
				MatchedText: candidate.Text,
				Similarity:  sim,
			}
		}
	}

	if !found {
		return MatchResult{Outcome: OutcomeEmptyCorpus, Skipped: skipped}, nil
	}
	best.Skipped = skipped
	return best, nil
}
