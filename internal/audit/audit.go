// Package audit keeps the append-only trail of who changed what. Entries are
// written by every state-changing operation and never mutated or deleted.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action is the kind of change an entry records.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionBulkUpload Action = "bulk_upload"
)

// Table names the aggregate an entry touched.
type Table string

const (
	TableReps        Table = "reps"
	TableAssignments Table = "assignments"
)

// Entry is one immutable audit record.
type Entry struct {
	ID           uuid.UUID  `json:"id"`
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	UserFullName string     `json:"user_full_name"`
	Action       Action     `json:"action"`
	TableName    Table      `json:"table_name"`
	RecordID     *uuid.UUID `json:"record_id"`
	Description  string     `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Store persists audit entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// List returns entries newest first, plus the total count for paging.
	List(ctx context.Context, limit, offset int) ([]Entry, int, error)
}
