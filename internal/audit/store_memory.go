package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps entries in insertion order for tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, limit, offset int) ([]Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.entries)

	// Newest first.
	reversed := make([]Entry, 0, total)
	for i := total - 1; i >= 0; i-- {
		reversed = append(reversed, s.entries[i])
	}

	if offset >= len(reversed) {
		return nil, total, nil
	}
	reversed = reversed[offset:]
	if limit < len(reversed) {
		reversed = reversed[:limit]
	}
	return reversed, total, nil
}

// Entries returns everything appended so far, oldest first.
func (s *InMemoryStore) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
