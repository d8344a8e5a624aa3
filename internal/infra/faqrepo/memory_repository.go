package faqrepo

import (
	"context"
	"sync"
	"time"

	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
	"github.com/charityfund/faqbot/internal/domain/triage"
)

type memoryVariant struct {
	id         int64
	text       string
	embedding  []byte
	questionID int64
}

type memoryPending struct {
	id             int64
	userQuestionID int64
	processed      bool
	createdAt      time.Time
}

// MemoryRepository is an in-memory implementation of the storage contracts
// used for tests and local development.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	groups    map[int64]catalog.Group
	answers   map[int64]catalog.Answer
	questions map[int64]catalog.StandardQuestion
	variants  []memoryVariant
	userLog   map[int64]faq.UserQuestionLog
	pending   []memoryPending
}

// NewMemoryRepository constructs a repository backed by process memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:    1,
		groups:    make(map[int64]catalog.Group),
		answers:   make(map[int64]catalog.Answer),
		questions: make(map[int64]catalog.StandardQuestion),
		userLog:   make(map[int64]faq.UserQuestionLog),
	}
}

func (r *MemoryRepository) id() int64 {
	id := r.nextID
	r.nextID++
	return id
}

// ListVariants implements faq.CorpusRepository. A fresh slice is returned
// so in-flight scans never observe later writes.
func (r *MemoryRepository) ListVariants(_ context.Context) ([]faq.VariantRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faq.VariantRow, 0, len(r.variants))
	for _, v := range r.variants {
		q, ok := r.questions[v.questionID]
		if !ok {
			continue
		}
		out = append(out, faq.VariantRow{
			VariantID:   v.id,
			Embedding:   v.embedding,
			CanonicalID: q.ID,
			AnswerID:    q.AnswerID,
			Intent:      q.Intent,
			Text:        v.text,
		})
	}
	return out, nil
}

// GetAnswerText implements faq.CorpusRepository.
func (r *MemoryRepository) GetAnswerText(_ context.Context, answerID int64) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.answers[answerID]
	return a.Text, ok, nil
}

// LogUserQuestion implements faq.CorpusRepository.
func (r *MemoryRepository) LogUserQuestion(_ context.Context, entry faq.UserQuestionLog) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.id()
	r.userLog[id] = entry
	return id, nil
}

// LogPendingQuestion implements faq.CorpusRepository.
func (r *MemoryRepository) LogPendingQuestion(_ context.Context, userQuestionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, memoryPending{
		id:             r.id(),
		userQuestionID: userQuestionID,
		createdAt:      time.Now(),
	})
	return nil
}

// GetOrCreateGroup implements catalog.Repository.
func (r *MemoryRepository) GetOrCreateGroup(_ context.Context, name, description string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if g.Name == name {
			return g.ID, nil
		}
	}
	id := r.id()
	r.groups[id] = catalog.Group{ID: id, Name: name, Description: description}
	return id, nil
}

// InsertAnswer implements catalog.Repository.
func (r *MemoryRepository) InsertAnswer(_ context.Context, text string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.id()
	r.answers[id] = catalog.Answer{ID: id, Text: text}
	return id, nil
}

// FindAnswerByText implements catalog.Repository.
func (r *MemoryRepository) FindAnswerByText(_ context.Context, text string) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.answers {
		if a.Text == text {
			return a.ID, true, nil
		}
	}
	return 0, false, nil
}

// InsertStandardQuestion implements catalog.Repository.
func (r *MemoryRepository) InsertStandardQuestion(_ context.Context, title string, groupID, answerID int64, intent string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.id()
	r.questions[id] = catalog.StandardQuestion{ID: id, Title: title, GroupID: groupID, AnswerID: answerID, Intent: intent}
	return id, nil
}

// FindStandardQuestion implements catalog.Repository.
func (r *MemoryRepository) FindStandardQuestion(_ context.Context, groupID int64, title string) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.questions {
		if q.GroupID == groupID && q.Title == title {
			return q.ID, true, nil
		}
	}
	return 0, false, nil
}

// InsertVariant implements catalog.Repository.
func (r *MemoryRepository) InsertVariant(_ context.Context, text string, embedding []byte, standardQuestionID int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.variants {
		if v.text == text && v.questionID == standardQuestionID {
			return v.id, false, nil
		}
	}
	id := r.id()
	r.variants = append(r.variants, memoryVariant{
		id:         id,
		text:       text,
		embedding:  append([]byte(nil), embedding...),
		questionID: standardQuestionID,
	})
	return id, true, nil
}

// ListGroups implements catalog.Repository.
func (r *MemoryRepository) ListGroups(_ context.Context) ([]catalog.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	return out, nil
}

// ListStandardQuestions implements catalog.Repository.
func (r *MemoryRepository) ListStandardQuestions(_ context.Context) ([]catalog.StandardQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.StandardQuestion, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, q)
	}
	return out, nil
}

// ListAnswers implements catalog.Repository.
func (r *MemoryRepository) ListAnswers(_ context.Context) ([]catalog.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Answer, 0, len(r.answers))
	for _, a := range r.answers {
		out = append(out, a)
	}
	return out, nil
}

// ListPending implements triage.Repository.
func (r *MemoryRepository) ListPending(_ context.Context) ([]triage.PendingQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []triage.PendingQuestion
	for _, p := range r.pending {
		if p.processed {
			continue
		}
		out = append(out, r.toPendingLocked(p))
	}
	return out, nil
}

// GetPending implements triage.Repository.
func (r *MemoryRepository) GetPending(_ context.Context, pendingID int64) (triage.PendingQuestion, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pending {
		if p.id == pendingID && !p.processed {
			return r.toPendingLocked(p), true, nil
		}
	}
	return triage.PendingQuestion{}, false, nil
}

// MarkProcessed implements triage.Repository.
func (r *MemoryRepository) MarkProcessed(_ context.Context, pendingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pending {
		if r.pending[i].id == pendingID {
			r.pending[i].processed = true
			return nil
		}
	}
	return nil
}

func (r *MemoryRepository) toPendingLocked(p memoryPending) triage.PendingQuestion {
	entry := r.userLog[p.userQuestionID]
	return triage.PendingQuestion{
		ID:             p.id,
		UserQuestionID: p.userQuestionID,
		RawQuestion:    entry.RawQuestion,
		NormalizedText: entry.NormalizedText,
		CreatedAt:      p.createdAt,
	}
}

var (
	_ faq.CorpusRepository = (*MemoryRepository)(nil)
	_ catalog.Repository   = (*MemoryRepository)(nil)
	_ triage.Repository    = (*MemoryRepository)(nil)
)
