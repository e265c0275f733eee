package store

import (
	"context"

	"github.com/google/uuid"

	"territory/internal/rep/models"
)

// Store abstracts rep persistence so services can run against postgres in
// production and the in-memory implementation in tests.
//
// Implementations return sentinel.ErrNotFound for missing reps and
// sentinel.ErrConflict when the case-insensitive email uniqueness constraint
// rejects a write.
type Store interface {
	// List returns all reps ordered by last name, then first name.
	List(ctx context.Context) ([]*models.Rep, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Rep, error)
	Create(ctx context.Context, rep *models.Rep) error
	// BulkCreate inserts all reps in one statement; a uniqueness violation
	// anywhere aborts the whole batch.
	BulkCreate(ctx context.Context, reps []*models.Rep) error
	Update(ctx context.Context, rep *models.Rep) error
	// Delete removes the rep; the backing store cascades to its assignments.
	Delete(ctx context.Context, id uuid.UUID) error
}
