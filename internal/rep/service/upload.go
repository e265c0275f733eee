package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"territory/internal/audit"
	"territory/internal/auth"
	"territory/internal/rep/models"
	"territory/internal/upload"
	"territory/pkg/apperrors"
	"territory/pkg/sentinel"
	"territory/pkg/validate"
)

// UploadRow is one raw data row from a rep CSV upload.
type UploadRow struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Agency    string `json:"agency"`
	Channel   string `json:"channel"`
}

// UploadResult summarizes one reconciliation run.
type UploadResult struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Errors  []upload.RowError `json:"errors"`
}

// pendingID marks an email claimed by an earlier row of the same batch. A
// later row resolving to it is routed to the update stage, where the nil id
// can never match a stored rep, so the duplicate surfaces as a persistence
// error instead of a second insert.
var pendingID = uuid.Nil

// Upload reconciles a batch of rep rows against the current roster: each row
// is validated, classified as create or update by its email, and rejected
// rows are reported with their 1-based source row number without aborting
// the batch.
func (s *Service) Upload(ctx context.Context, session auth.Session, rows []UploadRow) (*UploadResult, error) {
	existing, err := s.store.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch existing reps", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to fetch existing reps")
	}

	// Identity index: lower-cased email -> rep id. Rebuilt per call; the
	// roster can change between uploads.
	emailToID := make(map[string]uuid.UUID, len(existing))
	for _, rep := range existing {
		emailToID[strings.ToLower(rep.Email)] = rep.ID
	}

	result := &UploadResult{Errors: []upload.RowError{}}

	type pendingUpdate struct {
		id  uuid.UUID
		rep *models.Rep
	}
	var (
		toInsert []*models.Rep
		toUpdate []pendingUpdate
	)

	for i, row := range rows {
		rowNum := upload.RowNumber(i)

		if strings.TrimSpace(row.FirstName) == "" {
			result.Errors = append(result.Errors, upload.RowError{Row: rowNum, Message: "Missing first_name"})
			continue
		}
		if strings.TrimSpace(row.LastName) == "" {
			result.Errors = append(result.Errors, upload.RowError{Row: rowNum, Message: "Missing last_name"})
			continue
		}
		if strings.TrimSpace(row.Email) == "" {
			result.Errors = append(result.Errors, upload.RowError{Row: rowNum, Message: "Missing email"})
			continue
		}
		if strings.TrimSpace(row.Channel) == "" {
			result.Errors = append(result.Errors, upload.RowError{Row: rowNum, Message: "Missing channel"})
			continue
		}

		email := strings.ToLower(strings.TrimSpace(row.Email))
		if !validate.EmailShape(email) {
			result.Errors = append(result.Errors, upload.RowError{
				Row: rowNum, Message: fmt.Sprintf("Invalid email: %s", row.Email),
			})
			continue
		}

		channel := strings.TrimSpace(row.Channel)
		if !models.Channel(channel).Valid() {
			result.Errors = append(result.Errors, upload.RowError{
				Row: rowNum, Message: fmt.Sprintf("Invalid channel: %s. Must be Golf, Promo, or Gift.", channel),
			})
			continue
		}

		rep := &models.Rep{
			FirstName: strings.TrimSpace(row.FirstName),
			LastName:  strings.TrimSpace(row.LastName),
			Email:     email,
			Channel:   models.Channel(channel),
		}
		if phone := strings.TrimSpace(row.Phone); phone != "" {
			rep.Phone = &phone
		}
		if agency := strings.TrimSpace(row.Agency); agency != "" {
			rep.Agency = &agency
		}

		if existingID, ok := emailToID[email]; ok {
			toUpdate = append(toUpdate, pendingUpdate{id: existingID, rep: rep})
		} else {
			rep.ID = uuid.New()
			toInsert = append(toInsert, rep)
			emailToID[email] = pendingID
		}
	}

	if len(toInsert) > 0 {
		err := s.store.BulkCreate(ctx, toInsert)
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			result.Errors = append(result.Errors, upload.RowError{Row: 0, Message: "Duplicate email found in upload"})
		case err != nil:
			s.logger.ErrorContext(ctx, "failed to bulk insert reps", "error", err)
			return nil, apperrors.New(apperrors.CodeInternal, "Failed to create reps")
		default:
			result.Created = len(toInsert)
		}
	}

	// Updates run one at a time so a single failure doesn't take down the
	// rest. The source row number isn't threaded through to this stage, so
	// these errors carry row 0.
	for _, u := range toUpdate {
		rep := u.rep
		rep.ID = u.id
		if err := s.store.Update(ctx, rep); err != nil {
			s.logger.WarnContext(ctx, "failed to update rep in bulk upload",
				"email", rep.Email, "error", err)
			result.Errors = append(result.Errors, upload.RowError{
				Row: 0, Message: fmt.Sprintf("Failed to update %s", rep.Email),
			})
		} else {
			result.Updated++
		}
	}

	s.metrics.IncrementRepsCreated(result.Created)
	s.metrics.CountUploadRows("reps", "accepted", result.Created+result.Updated)
	s.metrics.CountUploadRows("reps", "rejected", len(result.Errors))

	if result.Created > 0 || result.Updated > 0 {
		s.recorder.Record(ctx, session, audit.ActionBulkUpload, audit.TableReps, nil,
			fmt.Sprintf("Bulk upload: %d created, %d updated, %d errors",
				result.Created, result.Updated, len(result.Errors)))
	}
	return result, nil
}
