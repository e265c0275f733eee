package store

import (
	"context"

	"territory/internal/assignment/models"
	repmodels "territory/internal/rep/models"
)

// Store abstracts assignment persistence. (zip_code, channel) is the
// identity: Upsert and BulkUpsert replace the owning rep on conflict rather
// than creating a second row.
//
// Implementations return sentinel.ErrNotFound for missing assignments.
type Store interface {
	// ListByZip returns every channel's assignment for a zip, with reps.
	ListByZip(ctx context.Context, zip string) ([]*models.WithRep, error)
	GetByZipChannel(ctx context.Context, zip string, channel repmodels.Channel) (*models.WithRep, error)
	// Upsert inserts the assignment or, when the (zip, channel) pair is
	// already held, replaces its rep while keeping the row's identity.
	Upsert(ctx context.Context, assignment *models.Assignment) error
	// BulkUpsert writes all assignments in one statement; the batch either
	// fully applies or fully fails.
	BulkUpsert(ctx context.Context, assignments []*models.Assignment) error
	Delete(ctx context.Context, zip string, channel repmodels.Channel) error
}
