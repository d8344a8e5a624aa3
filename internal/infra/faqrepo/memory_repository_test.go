package faqrepo

import (
	"context"
	"testing"

	"github.com/charityfund/faqbot/internal/domain/faq"
)

func TestMemoryRepositoryCorpusRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	groupID, err := repo.GetOrCreateGroup(ctx, "Donations", "")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	answerID, err := repo.InsertAnswer(ctx, "Use the donate page.")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	questionID, err := repo.InsertStandardQuestion(ctx, "How do I donate?", groupID, answerID, "donate")
	if err != nil {
		t.Fatalf("question: %v", err)
	}

	blob := faq.EncodeEmbedding([]float32{1, 0, 0})
	if _, inserted, err := repo.InsertVariant(ctx, "How can I give", blob, questionID); err != nil || !inserted {
		t.Fatalf("variant insert: inserted=%v err=%v", inserted, err)
	}
	if _, inserted, _ := repo.InsertVariant(ctx, "How can I give", blob, questionID); inserted {
		t.Fatal("duplicate variant must not insert")
	}

	variants, err := repo.ListVariants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(variants))
	}
	v := variants[0]
	if v.AnswerID != answerID || v.CanonicalID != questionID || v.Intent != "donate" {
		t.Fatalf("unexpected join result: %+v", v)
	}

	text, found, err := repo.GetAnswerText(ctx, answerID)
	if err != nil || !found || text != "Use the donate page." {
		t.Fatalf("answer lookup: %q %v %v", text, found, err)
	}
}

func TestMemoryRepositoryPendingFlow(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	logID, err := repo.LogUserQuestion(ctx, faq.UserQuestionLog{RawQuestion: "Can I volunteer?", NormalizedText: "can i volunteer?"})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := repo.LogPendingQuestion(ctx, logID); err != nil {
		t.Fatalf("pending: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %v (%v)", pending, err)
	}
	if pending[0].RawQuestion != "Can I volunteer?" {
		t.Fatalf("unexpected pending row: %+v", pending[0])
	}

	if err := repo.MarkProcessed(ctx, pending[0].ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	remaining, _ := repo.ListPending(ctx)
	if len(remaining) != 0 {
		t.Fatalf("expected no pending rows, got %v", remaining)
	}
}
