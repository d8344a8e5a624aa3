package faq

import (
	"context"
	"time"
)

// Store caches answer texts and tracks questions the bot could not answer.
type Store interface {
	GetAnswer(ctx context.Context, answerID int64) (string, bool, error)
	SaveAnswer(ctx context.Context, answerID int64, text string, ttl time.Duration) error
	IncrementUnanswered(ctx context.Context, canonical, display string) error
	TopUnanswered(ctx context.Context, limit int) ([]UnansweredQuery, error)
}
