package catalog

import "github.com/charityfund/faqbot/internal/domain/faq"

// Config holds runtime knobs for catalog management.
type Config struct {
	EmbeddingDimension int
	Normalization      faq.NormalizationProfile
}
