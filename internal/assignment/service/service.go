package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"territory/internal/assignment/models"
	"territory/internal/assignment/store"
	"territory/internal/audit"
	"territory/internal/auth"
	"territory/internal/platform/metrics"
	repmodels "territory/internal/rep/models"
	repstore "territory/internal/rep/store"
	"territory/pkg/apperrors"
	"territory/pkg/sentinel"
	"territory/pkg/validate"
)

// Service implements single-assignment writes and the territory upload
// reconciler. The channel invariant — an assignment's rep must belong to the
// channel being assigned — is enforced here on every path that sets a rep.
type Service struct {
	assignments store.Store
	reps        repstore.Store
	recorder    *audit.Recorder
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func New(assignments store.Store, reps repstore.Store, recorder *audit.Recorder, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		assignments: assignments,
		reps:        reps,
		recorder:    recorder,
		metrics:     metrics,
		logger:      logger,
	}
}

// AssignInput carries a single create-or-reassign request.
type AssignInput struct {
	ZipCode string `json:"zip_code"`
	Channel string `json:"channel"`
	RepID   string `json:"rep_id"`
}

// Assign creates or replaces the assignment for (zip, channel).
func (s *Service) Assign(ctx context.Context, session auth.Session, in AssignInput) (*models.Assignment, error) {
	if in.ZipCode == "" || in.Channel == "" || in.RepID == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "zip_code, channel, and rep_id are required")
	}
	if !validate.ZipCode(in.ZipCode) {
		return nil, apperrors.New(apperrors.CodeBadRequest, "Invalid zip code format")
	}
	channel := repmodels.Channel(in.Channel)
	if !channel.Valid() {
		return nil, apperrors.New(apperrors.CodeBadRequest, "Invalid channel. Must be Golf, Promo, or Gift.")
	}
	repID, err := uuid.Parse(in.RepID)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "Rep not found")
	}

	rep, err := s.reps.Get(ctx, repID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Rep not found")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch rep for assignment", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to save assignment")
	}
	if rep.Channel != channel {
		return nil, apperrors.New(apperrors.CodeBadRequest,
			fmt.Sprintf("Rep is assigned to %s channel, not %s", rep.Channel, channel))
	}

	// Fetched before the write so the audit entry can name the previous rep.
	existing, err := s.assignments.GetByZipChannel(ctx, in.ZipCode, channel)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to fetch existing assignment", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to save assignment")
	}

	assignment := &models.Assignment{
		ID:      uuid.New(),
		ZipCode: in.ZipCode,
		Channel: channel,
		RepID:   repID,
	}
	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		s.logger.ErrorContext(ctx, "failed to upsert assignment", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to save assignment")
	}

	if existing != nil {
		oldName := "Unknown"
		if existing.Rep != nil {
			oldName = existing.Rep.FullName()
		}
		s.recorder.Record(ctx, session, audit.ActionUpdate, audit.TableAssignments, &assignment.ID,
			fmt.Sprintf("Reassigned %s (%s): %s -> %s", in.ZipCode, channel, oldName, rep.FullName()))
	} else {
		s.recorder.Record(ctx, session, audit.ActionCreate, audit.TableAssignments, &assignment.ID,
			fmt.Sprintf("Assigned %s (%s) to %s", in.ZipCode, channel, rep.FullName()))
	}
	return assignment, nil
}

// Remove deletes the assignment for (zip, channel), leaving the pair
// unassigned.
func (s *Service) Remove(ctx context.Context, session auth.Session, zip, channelRaw string) error {
	if zip == "" || channelRaw == "" {
		return apperrors.New(apperrors.CodeBadRequest, "zip_code and channel are required")
	}
	if !validate.ZipCode(zip) {
		return apperrors.New(apperrors.CodeBadRequest, "Invalid zip code format")
	}
	channel := repmodels.Channel(channelRaw)
	if !channel.Valid() {
		return apperrors.New(apperrors.CodeBadRequest, "Invalid channel. Must be Golf, Promo, or Gift.")
	}

	existing, err := s.assignments.GetByZipChannel(ctx, zip, channel)
	if errors.Is(err, sentinel.ErrNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "Assignment not found")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch assignment for delete", "error", err)
		return apperrors.New(apperrors.CodeInternal, "Failed to delete assignment")
	}

	if err := s.assignments.Delete(ctx, zip, channel); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to delete assignment", "error", err)
		return apperrors.New(apperrors.CodeInternal, "Failed to delete assignment")
	}

	repName := "Unknown"
	if existing.Rep != nil {
		repName = existing.Rep.FullName()
	}
	s.recorder.Record(ctx, session, audit.ActionDelete, audit.TableAssignments, &existing.ID,
		fmt.Sprintf("Deleted assignment: %s (%s) - was assigned to %s", zip, channel, repName))
	return nil
}

// Lookup returns the assignments covering a zip, joined with their reps.
func (s *Service) Lookup(ctx context.Context, zip string) ([]*models.WithRep, error) {
	out, err := s.assignments.ListByZip(ctx, zip)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list assignments", "zip", zip, "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Database error")
	}
	return out, nil
}

// repRef is an identity-index entry: the rep's id plus its channel, which the
// territory upload derives per row instead of taking from the caller.
type repRef struct {
	id      uuid.UUID
	channel repmodels.Channel
}

// buildEmailIndex maps lower-cased emails to repRefs. Rebuilt fresh per
// upload call; the roster can change between calls.
func buildEmailIndex(reps []*repmodels.Rep) map[string]repRef {
	index := make(map[string]repRef, len(reps))
	for _, rep := range reps {
		index[strings.ToLower(rep.Email)] = repRef{id: rep.ID, channel: rep.Channel}
	}
	return index
}
