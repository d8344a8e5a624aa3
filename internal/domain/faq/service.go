package faq

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/charityfund/faqbot/pkg/errors"
)

// IntentUnknown is returned whenever no stored answer was accepted.
const IntentUnknown = "unknown"

// Service answers free-text questions against the curated FAQ catalog.
type Service interface {
	Ask(ctx context.Context, req Request) (Response, error)
	Unanswered(ctx context.Context) ([]UnansweredQuery, error)
}

type service struct {
	cfg     Config
	repo    CorpusRepository
	store   Store
	embed   Embedder
	matcher *Matcher
	logger  *slog.Logger
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, repo CorpusRepository, store Store, embed Embedder, logger *slog.Logger) Service {
	cfg.Normalization = SanitizeProfile(cfg.Normalization)
	return &service{
		cfg:     cfg,
		repo:    repo,
		store:   store,
		embed:   embed,
		matcher: NewMatcher(cfg.EmbeddingDimension, logger),
		logger:  logger.With("component", "faq.service"),
	}
}

// Ask runs the full pipeline: normalize, embed, scan the corpus, apply the
// acceptance threshold and resolve the answer text. No-match is a normal
// outcome carrying the fallback answer; only corpus or embedding failures
// surface as errors.
func (s *service) Ask(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}

	start := time.Now()
	normalized := NormalizeQuestion(question, s.cfg.Normalization)

	query, err := s.embed.Embed(ctx, normalized)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeEmbeddingFailed, "failed to embed question", err)
	}
	if len(query) != s.cfg.EmbeddingDimension {
		return Response{}, apperrors.Wrap(apperrors.CodeEmbeddingFailed, "embedding has unexpected dimension", nil)
	}

	corpus, err := s.repo.ListVariants(ctx)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeCorpusUnavailable, "failed to load question variants", err)
	}

	result, err := s.matcher.FindBestMatch(ctx, query, corpus)
	if err != nil {
		return Response{}, err
	}
	if result.Skipped > 0 {
		s.logger.Warn("corpus scan skipped malformed variants", "skipped", result.Skipped)
	}

	// Accept iff similarity >= threshold. The boundary is inclusive.
	if result.Outcome == OutcomeMatched && result.Similarity < s.cfg.SimilarityThreshold {
		result.Outcome = OutcomeBelowThreshold
	}

	if result.Outcome != OutcomeMatched {
		return s.respondUnmatched(ctx, req, question, normalized, query, result, start), nil
	}

	answer, ok := s.resolveAnswer(ctx, result.AnswerID)
	if !ok {
		// A variant pointing at a missing answer is a catalog defect;
		// from the caller's perspective it is still an unanswered question.
		s.logger.Warn("matched variant has no answer text", "answer_id", result.AnswerID, "variant_id", result.VariantID)
		return s.respondUnmatched(ctx, req, question, normalized, query, result, start), nil
	}

	elapsed := time.Since(start)
	s.logMatched(ctx, req, question, normalized, query, result, elapsed)

	s.logger.Info("question matched",
		"matched_question", result.MatchedText,
		"similarity", result.Similarity,
		"intent", result.Intent)

	return Response{
		Answer:          answer,
		Intent:          result.Intent,
		Confidence:      result.Similarity,
		Matched:         true,
		MatchedQuestion: result.MatchedText,
		DurationMs:      elapsed.Milliseconds(),
	}, nil
}

// Unanswered lists the most frequently missed questions for curators.
func (s *service) Unanswered(ctx context.Context) ([]UnansweredQuery, error) {
	items, err := s.store.TopUnanswered(ctx, s.cfg.TopUnanswered)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTriageError, "failed to load unanswered queries", err)
	}
	return items, nil
}

func (s *service) resolveAnswer(ctx context.Context, answerID int64) (string, bool) {
	cached, ok, err := s.store.GetAnswer(ctx, answerID)
	if err != nil {
		s.logger.Warn("answer cache lookup failed", "error", err)
	} else if ok {
		return cached, true
	}

	text, found, err := s.repo.GetAnswerText(ctx, answerID)
	if err != nil {
		s.logger.Warn("answer fetch failed", "answer_id", answerID, "error", err)
		return "", false
	}
	if !found {
		return "", false
	}
	if err := s.store.SaveAnswer(ctx, answerID, text, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("answer cache save failed", "error", err)
	}
	return text, true
}

func (s *service) respondUnmatched(ctx context.Context, req Request, question, normalized string, query []float32, result MatchResult, start time.Time) Response {
	elapsed := time.Since(start)

	confidence := 0.0
	if result.Outcome == OutcomeBelowThreshold {
		confidence = result.Similarity
	}

	entry := UserQuestionLog{
		SessionID:      req.SessionID,
		ClientID:       req.ClientID,
		RawQuestion:    question,
		NormalizedText: normalized,
		Embedding:      EncodeEmbedding(query),
		Found:          false,
		ResponseTimeMs: elapsed.Milliseconds(),
		CreatedAt:      time.Now(),
	}
	if result.Outcome == OutcomeBelowThreshold {
		c := result.Similarity
		entry.Confidence = &c
	}
	questionID, err := s.repo.LogUserQuestion(ctx, entry)
	if err != nil {
		s.logger.Warn("user question log failed", "error", err)
	} else if err := s.repo.LogPendingQuestion(ctx, questionID); err != nil {
		s.logger.Warn("pending question log failed", "error", err)
	}

	if err := s.store.IncrementUnanswered(ctx, normalized, question); err != nil {
		s.logger.Warn("unanswered counter failed", "error", err)
	}

	s.logger.Info("question unmatched", "outcome", result.Outcome, "confidence", confidence)

	return Response{
		Answer:     s.cfg.FallbackAnswer,
		Intent:     IntentUnknown,
		Confidence: confidence,
		Matched:    false,
		DurationMs: elapsed.Milliseconds(),
	}
}

func (s *service) logMatched(ctx context.Context, req Request, question, normalized string, query []float32, result MatchResult, elapsed time.Duration) {
	confidence := result.Similarity
	canonicalID := result.CanonicalID
	answerID := result.AnswerID
	entry := UserQuestionLog{
		SessionID:      req.SessionID,
		ClientID:       req.ClientID,
		RawQuestion:    question,
		NormalizedText: normalized,
		Embedding:      EncodeEmbedding(query),
		CanonicalID:    &canonicalID,
		AnswerID:       &answerID,
		Found:          true,
		Confidence:     &confidence,
		ResponseTimeMs: elapsed.Milliseconds(),
		CreatedAt:      time.Now(),
	}
	if _, err := s.repo.LogUserQuestion(ctx, entry); err != nil {
		s.logger.Warn("user question log failed", "error", err)
	}
}
