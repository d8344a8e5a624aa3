package triage

import "context"

// Repository encapsulates pending-question storage.
type Repository interface {
	ListPending(ctx context.Context) ([]PendingQuestion, error)
	GetPending(ctx context.Context, pendingID int64) (PendingQuestion, bool, error)
	MarkProcessed(ctx context.Context, pendingID int64) error
}

// VariantAttacher turns a resolved pending question into a corpus variant.
// Satisfied by the catalog service.
type VariantAttacher interface {
	AddVariant(ctx context.Context, standardQuestionID int64, text string) (int64, bool, error)
}
