package faq

import "context"

// CorpusRepository encapsulates storage operations the ask pipeline needs.
// ListVariants must return a consistent snapshot: the matcher scans the
// returned slice without locking, so it must never mutate under the scan.
type CorpusRepository interface {
	ListVariants(ctx context.Context) ([]VariantRow, error)
	GetAnswerText(ctx context.Context, answerID int64) (string, bool, error)
	LogUserQuestion(ctx context.Context, entry UserQuestionLog) (int64, error)
	LogPendingQuestion(ctx context.Context, userQuestionID int64) error
}

// Embedder converts normalized text into a fixed-dimension dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
