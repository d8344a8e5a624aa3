package faq

import "time"

// Config holds runtime knobs for the ask pipeline.
type Config struct {
	SimilarityThreshold float64
	EmbeddingDimension  int
	Normalization       NormalizationProfile
	FallbackAnswer      string
	CacheTTL            time.Duration
	TopUnanswered       int
}
