package faqstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charityfund/faqbot/internal/domain/faq"
)

type cachedAnswer struct {
	text      string
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the FAQ store for tests/dev.
type MemoryStore struct {
	mu         sync.RWMutex
	answers    map[int64]cachedAnswer
	unanswered map[string]int64
	displays   map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		answers:    make(map[int64]cachedAnswer),
		unanswered: make(map[string]int64),
		displays:   make(map[string]string),
	}
}

// GetAnswer implements faq.Store.
func (s *MemoryStore) GetAnswer(_ context.Context, answerID int64) (string, bool, error) {
	if answerID <= 0 {
		return "", false, nil
	}
	s.mu.RLock()
	record, ok := s.answers[answerID]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.answers, answerID)
		s.mu.Unlock()
		return "", false, nil
	}
	return record.text, true, nil
}

// SaveAnswer caches the answer text with optional TTL.
func (s *MemoryStore) SaveAnswer(_ context.Context, answerID int64, text string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.answers[answerID] = cachedAnswer{text: text, expiresAt: exp}
	return nil
}

// IncrementUnanswered bumps the miss counter for a normalized question.
func (s *MemoryStore) IncrementUnanswered(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unanswered[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// TopUnanswered returns the most frequently missed questions.
func (s *MemoryStore) TopUnanswered(_ context.Context, limit int) ([]faq.UnansweredQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.unanswered)
	}
	items := make([]faq.UnansweredQuery, 0, len(s.unanswered))
	for canonical, count := range s.unanswered {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, faq.UnansweredQuery{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ faq.Store = (*MemoryStore)(nil)
