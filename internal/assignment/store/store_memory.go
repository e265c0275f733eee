package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"territory/internal/assignment/models"
	repmodels "territory/internal/rep/models"
	"territory/pkg/sentinel"
)

// RepSource resolves rep ids for joined reads.
type RepSource interface {
	Get(ctx context.Context, id uuid.UUID) (*repmodels.Rep, error)
}

// InMemory is a map-backed Store for tests. Joined reads resolve reps through
// the RepSource; an assignment whose rep has been deleted is skipped, which
// mirrors what the postgres cascade makes visible.
type InMemory struct {
	mu          sync.RWMutex
	assignments map[string]*models.Assignment
	reps        RepSource
}

func NewInMemory(reps RepSource) *InMemory {
	return &InMemory{
		assignments: make(map[string]*models.Assignment),
		reps:        reps,
	}
}

func key(zip string, channel repmodels.Channel) string {
	return zip + "|" + string(channel)
}

func (s *InMemory) ListByZip(ctx context.Context, zip string) ([]*models.WithRep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.WithRep
	for _, a := range s.assignments {
		if a.ZipCode != zip {
			continue
		}
		joined, err := s.join(ctx, a)
		if err != nil {
			return nil, err
		}
		if joined != nil {
			out = append(out, joined)
		}
	}
	return out, nil
}

func (s *InMemory) GetByZipChannel(ctx context.Context, zip string, channel repmodels.Channel) (*models.WithRep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[key(zip, channel)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	joined, err := s.join(ctx, a)
	if err != nil {
		return nil, err
	}
	if joined == nil {
		return nil, sentinel.ErrNotFound
	}
	return joined, nil
}

func (s *InMemory) Upsert(ctx context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertLocked(assignment)
	return nil
}

func (s *InMemory) BulkUpsert(ctx context.Context, assignments []*models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range assignments {
		s.upsertLocked(a)
	}
	return nil
}

func (s *InMemory) Delete(ctx context.Context, zip string, channel repmodels.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(zip, channel)
	if _, ok := s.assignments[k]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.assignments, k)
	return nil
}

// upsertLocked replaces the rep while keeping the existing row's identity,
// matching ON CONFLICT DO UPDATE. Callers must hold the lock.
func (s *InMemory) upsertLocked(assignment *models.Assignment) {
	k := key(assignment.ZipCode, assignment.Channel)
	if existing, ok := s.assignments[k]; ok {
		assignment.ID = existing.ID
		assignment.CreatedAt = existing.CreatedAt
	}
	clone := *assignment
	s.assignments[k] = &clone
}

func (s *InMemory) join(ctx context.Context, a *models.Assignment) (*models.WithRep, error) {
	rep, err := s.reps.Get(ctx, a.RepID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	clone := *a
	return &models.WithRep{Assignment: clone, Rep: rep}, nil
}
