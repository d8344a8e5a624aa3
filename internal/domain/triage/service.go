package triage

import (
	"context"
	"log/slog"

	apperrors "github.com/charityfund/faqbot/pkg/errors"
)

// Service drives the curator workflow for unanswered questions.
type Service interface {
	List(ctx context.Context) ([]PendingQuestion, error)
	// Resolve attaches the pending question as a new variant of an existing
	// standard question and marks it processed.
	Resolve(ctx context.Context, pendingID, standardQuestionID int64) error
	// Dismiss marks a pending question processed without touching the corpus.
	Dismiss(ctx context.Context, pendingID int64) error
}

type service struct {
	repo     Repository
	attacher VariantAttacher
	logger   *slog.Logger
}

// NewService wires up the triage domain.
func NewService(repo Repository, attacher VariantAttacher, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		attacher: attacher,
		logger:   logger.With("component", "triage.service"),
	}
}

func (s *service) List(ctx context.Context) ([]PendingQuestion, error) {
	items, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTriageError, "failed to list pending questions", err)
	}
	return items, nil
}

func (s *service) Resolve(ctx context.Context, pendingID, standardQuestionID int64) error {
	pending, found, err := s.repo.GetPending(ctx, pendingID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTriageError, "failed to fetch pending question", err)
	}
	if !found {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "pending question not found", nil)
	}

	_, inserted, err := s.attacher.AddVariant(ctx, standardQuestionID, pending.RawQuestion)
	if err != nil {
		return err
	}
	if !inserted {
		s.logger.Info("pending question already covered by an existing variant", "pending_id", pendingID)
	}

	if err := s.repo.MarkProcessed(ctx, pendingID); err != nil {
		return apperrors.Wrap(apperrors.CodeTriageError, "failed to mark pending question processed", err)
	}
	s.logger.Info("pending question resolved", "pending_id", pendingID, "question_id", standardQuestionID)
	return nil
}

func (s *service) Dismiss(ctx context.Context, pendingID int64) error {
	_, found, err := s.repo.GetPending(ctx, pendingID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTriageError, "failed to fetch pending question", err)
	}
	if !found {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "pending question not found", nil)
	}
	if err := s.repo.MarkProcessed(ctx, pendingID); err != nil {
		return apperrors.Wrap(apperrors.CodeTriageError, "failed to mark pending question processed", err)
	}
	return nil
}
