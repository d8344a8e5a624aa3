package triage

import "time"

// PendingQuestion is an unanswered user question queued for a curator.
type PendingQuestion struct {
	ID             int64     `json:"id"`
	UserQuestionID int64     `json:"userQuestionId"`
	RawQuestion    string    `json:"rawQuestion"`
	NormalizedText string    `json:"normalizedText"`
	CreatedAt      time.Time `json:"createdAt"`
}
