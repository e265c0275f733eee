package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"territory/internal/auth"
)

// Recorder writes audit entries on behalf of the domain services. A failed
// write never reaches the caller: the primary operation already succeeded, so
// the failure is only logged for operators.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends one entry describing the net effect of an operation.
func (r *Recorder) Record(ctx context.Context, session auth.Session, action Action, table Table, recordID *uuid.UUID, description string) {
	entry := Entry{
		ID:           uuid.New(),
		UserID:       session.UserID,
		Username:     session.Username,
		UserFullName: session.FullName,
		Action:       action,
		TableName:    table,
		RecordID:     recordID,
		Description:  description,
		CreatedAt:    time.Now(),
	}
	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "failed to write audit log",
			"action", string(action),
			"table", string(table),
			"error", err,
		)
	}
}
