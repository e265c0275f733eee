package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"territory/internal/audit"
	"territory/internal/auth"
	"territory/internal/platform/metrics"
	"territory/internal/rep/models"
	"territory/internal/rep/store"
	"territory/pkg/apperrors"
	"territory/pkg/sentinel"
	"territory/pkg/validate"
)

// Service implements rep CRUD and the bulk upload reconciler on top of a
// Store. Every successful mutation is recorded in the audit trail.
type Service struct {
	store    store.Store
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(store store.Store, recorder *audit.Recorder, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, recorder: recorder, metrics: metrics, logger: logger}
}

// Input carries the raw form fields for a single-rep create or update.
type Input struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Agency    string `json:"agency"`
	Channel   string `json:"channel"`
}

// normalize trims every field, lower-cases the email and maps empty optional
// fields to absent. Validation errors use the same rules as the bulk path.
func normalize(in Input) (*models.Rep, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	channel := strings.TrimSpace(in.Channel)

	if firstName == "" || lastName == "" || email == "" || channel == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest,
			"First name, last name, email, and channel are required")
	}
	if !validate.EmailShape(email) {
		return nil, apperrors.New(apperrors.CodeBadRequest,
			fmt.Sprintf("Invalid email: %s", in.Email))
	}
	if !models.Channel(channel).Valid() {
		return nil, apperrors.New(apperrors.CodeBadRequest,
			fmt.Sprintf("Invalid channel: %s. Must be Golf, Promo, or Gift.", channel))
	}

	rep := &models.Rep{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Channel:   models.Channel(channel),
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		rep.Phone = &phone
	}
	if agency := strings.TrimSpace(in.Agency); agency != "" {
		rep.Agency = &agency
	}
	return rep, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Rep, error) {
	reps, err := s.store.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list reps", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to fetch reps")
	}
	return reps, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Rep, error) {
	rep, err := s.store.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Rep not found")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch rep", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to fetch rep")
	}
	return rep, nil
}

func (s *Service) Create(ctx context.Context, session auth.Session, in Input) (*models.Rep, error) {
	rep, err := normalize(in)
	if err != nil {
		return nil, err
	}
	rep.ID = uuid.New()

	if err := s.store.Create(ctx, rep); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, apperrors.New(apperrors.CodeConflict, "A rep with this email already exists")
		}
		s.logger.ErrorContext(ctx, "failed to create rep", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to create rep")
	}

	s.metrics.IncrementRepsCreated(1)
	s.recorder.Record(ctx, session, audit.ActionCreate, audit.TableReps, &rep.ID,
		fmt.Sprintf("Created rep: %s (%s) - %s", rep.FullName(), rep.Email, rep.Channel))
	return rep, nil
}

func (s *Service) Update(ctx context.Context, session auth.Session, id uuid.UUID, in Input) (*models.Rep, error) {
	rep, err := normalize(in)
	if err != nil {
		return nil, err
	}
	rep.ID = id

	if err := s.store.Update(ctx, rep); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, apperrors.New(apperrors.CodeNotFound, "Rep not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, apperrors.New(apperrors.CodeConflict, "A rep with this email already exists")
		}
		s.logger.ErrorContext(ctx, "failed to update rep", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to update rep")
	}

	s.recorder.Record(ctx, session, audit.ActionUpdate, audit.TableReps, &rep.ID,
		fmt.Sprintf("Updated rep: %s (%s) - %s", rep.FullName(), rep.Email, rep.Channel))

	updated, err := s.store.Get(ctx, id)
	if err != nil {
		return rep, nil
	}
	return updated, nil
}

// Delete removes the rep; the store cascades to its assignments.
func (s *Service) Delete(ctx context.Context, session auth.Session, id uuid.UUID) error {
	rep, err := s.store.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "Rep not found")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch rep for delete", "error", err)
		return apperrors.New(apperrors.CodeInternal, "Failed to delete rep")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "Rep not found")
		}
		s.logger.ErrorContext(ctx, "failed to delete rep", "error", err)
		return apperrors.New(apperrors.CodeInternal, "Failed to delete rep")
	}

	s.recorder.Record(ctx, session, audit.ActionDelete, audit.TableReps, &id,
		fmt.Sprintf("Deleted rep: %s (%s)", rep.FullName(), rep.Email))
	return nil
}
