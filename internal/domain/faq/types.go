package faq

import "time"

// Request encapsulates an incoming question.
type Request struct {
	Question  string `json:"question"`
	SessionID string `json:"-"`
	ClientID  string `json:"-"`
}

// Response is returned to the HTTP transport.
type Response struct {
	Answer          string  `json:"answer"`
	Intent          string  `json:"intent"`
	Confidence      float64 `json:"confidence"`
	Matched         bool    `json:"matched"`
	MatchedQuestion string  `json:"matchedQuestion,omitempty"`
	DurationMs      int64   `json:"durationMs,omitempty"`
}

// Outcome classifies the result of a corpus scan.
type Outcome string

const (
	// OutcomeMatched means a valid candidate won the scan. The similarity
	// score still has to clear the acceptance threshold.
	OutcomeMatched Outcome = "matched"
	// OutcomeBelowThreshold means the best candidate scored under the bar.
	OutcomeBelowThreshold Outcome = "below_threshold"
	// OutcomeEmptyCorpus means no valid candidate existed at all.
	OutcomeEmptyCorpus Outcome = "empty_corpus"
)

// VariantRow is one stored question variant joined with its canonical
// question, exactly as the repository returns it. Embedding stays in its
// at-rest byte encoding; the matcher decodes and validates it.
type VariantRow struct {
	VariantID   int64
	Embedding   []byte
	CanonicalID int64
	AnswerID    int64
	Intent      string
	Text        string
}

// MatchResult carries the winner of a scan with full provenance.
// Skipped counts candidates dropped for malformed embeddings.
type MatchResult struct {
	Outcome     Outcome
	VariantID   int64
	CanonicalID int64
	AnswerID    int64
	Intent      string
	MatchedText string
	Similarity  float64
	Skipped     int
}

// UserQuestionLog is the audit record written for every processed question.
type UserQuestionLog struct {
	SessionID      string
	ClientID       string
	RawQuestion    string
	NormalizedText string
	Embedding      []byte
	CanonicalID    *int64
	AnswerID       *int64
	Found          bool
	Confidence     *float64
	ResponseTimeMs int64
	CreatedAt      time.Time
}

// UnansweredQuery is a frequently missed question surfaced for triage.
type UnansweredQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
