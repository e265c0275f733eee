package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"territory/internal/rep/models"
	"territory/pkg/sentinel"
)

// InMemory is a map-backed Store for tests and local development. It enforces
// the same case-insensitive email uniqueness as the postgres schema.
type InMemory struct {
	mu   sync.RWMutex
	reps map[uuid.UUID]*models.Rep
}

func NewInMemory() *InMemory {
	return &InMemory{reps: make(map[uuid.UUID]*models.Rep)}
}

func (s *InMemory) List(ctx context.Context) ([]*models.Rep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Rep, 0, len(s.reps))
	for _, rep := range s.reps {
		clone := *rep
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, id uuid.UUID) (*models.Rep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.reps[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *rep
	return &clone, nil
}

func (s *InMemory) Create(ctx context.Context, rep *models.Rep) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(rep.Email, rep.ID) {
		return sentinel.ErrConflict
	}
	clone := *rep
	s.reps[rep.ID] = &clone
	return nil
}

func (s *InMemory) BulkCreate(ctx context.Context, reps []*models.Rep) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// All-or-nothing, matching a single multi-row INSERT.
	seen := make(map[string]struct{}, len(reps))
	for _, rep := range reps {
		key := strings.ToLower(rep.Email)
		if _, dup := seen[key]; dup || s.emailTaken(rep.Email, rep.ID) {
			return sentinel.ErrConflict
		}
		seen[key] = struct{}{}
	}
	for _, rep := range reps {
		clone := *rep
		s.reps[rep.ID] = &clone
	}
	return nil
}

func (s *InMemory) Update(ctx context.Context, rep *models.Rep) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.reps[rep.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if s.emailTaken(rep.Email, rep.ID) {
		return sentinel.ErrConflict
	}
	clone := *rep
	clone.CreatedAt = existing.CreatedAt
	s.reps[rep.ID] = &clone
	return nil
}

func (s *InMemory) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reps[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.reps, id)
	return nil
}

// emailTaken reports whether another rep already holds this email,
// case-insensitively. Callers must hold the lock.
func (s *InMemory) emailTaken(email string, exclude uuid.UUID) bool {
	lowered := strings.ToLower(email)
	for id, rep := range s.reps {
		if id == exclude {
			continue
		}
		if strings.ToLower(rep.Email) == lowered {
			return true
		}
	}
	return false
}
