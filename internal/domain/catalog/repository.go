package catalog

import (
	"context"
	"io"
)

// Repository encapsulates curator-side storage operations.
type Repository interface {
	GetOrCreateGroup(ctx context.Context, name, description string) (int64, error)
	InsertAnswer(ctx context.Context, text string) (int64, error)
	FindAnswerByText(ctx context.Context, text string) (int64, bool, error)
	InsertStandardQuestion(ctx context.Context, title string, groupID, answerID int64, intent string) (int64, error)
	FindStandardQuestion(ctx context.Context, groupID int64, title string) (int64, bool, error)
	// InsertVariant reports inserted=false when the (text, question) pair
	// already exists; duplicates are silently kept out of the corpus.
	InsertVariant(ctx context.Context, text string, embedding []byte, standardQuestionID int64) (id int64, inserted bool, err error)
	ListGroups(ctx context.Context) ([]Group, error)
	ListStandardQuestions(ctx context.Context) ([]StandardQuestion, error)
	ListAnswers(ctx context.Context) ([]Answer, error)
}

// BatchEmbedder embeds many normalized texts in one round trip.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// DatasetSource opens bulk-load datasets by reference (a local path or an
// object key, depending on the configured implementation).
type DatasetSource interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}
