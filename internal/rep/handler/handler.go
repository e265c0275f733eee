package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"territory/internal/auth"
	"territory/internal/platform/middleware"
	"territory/internal/rep/models"
	"territory/internal/rep/service"
	"territory/pkg/apperrors"
	"territory/pkg/csvrows"
	"territory/pkg/httputil"
)

// Service defines the rep operations the HTTP layer needs.
type Service interface {
	List(ctx context.Context) ([]*models.Rep, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Rep, error)
	Create(ctx context.Context, session auth.Session, in service.Input) (*models.Rep, error)
	Update(ctx context.Context, session auth.Session, id uuid.UUID, in service.Input) (*models.Rep, error)
	Delete(ctx context.Context, session auth.Session, id uuid.UUID) error
	Upload(ctx context.Context, session auth.Session, rows []service.UploadRow) (*service.UploadResult, error)
}

// Handler exposes /api/reps. Reads are public; writes require a session.
type Handler struct {
	reps           Service
	logger         *slog.Logger
	requireSession func(http.Handler) http.Handler
}

func New(reps Service, logger *slog.Logger, requireSession func(http.Handler) http.Handler) *Handler {
	return &Handler{reps: reps, logger: logger, requireSession: requireSession}
}

// Register mounts the rep routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/reps", h.handleList)
	r.Get("/api/reps/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Post("/api/reps", h.handleCreate)
		r.Put("/api/reps/{id}", h.handleUpdate)
		r.Delete("/api/reps/{id}", h.handleDelete)
		r.Post("/api/reps/upload", h.handleUpload)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reps, err := h.reps.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if reps == nil {
		reps = []*models.Rep{}
	}
	httputil.WriteJSON(w, http.StatusOK, reps)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeNotFound, "Rep not found"))
		return
	}
	rep, err := h.reps.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return
	}

	var in service.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid request body"))
		return
	}

	rep, err := h.reps.Create(r.Context(), session, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeNotFound, "Rep not found"))
		return
	}

	var in service.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid request body"))
		return
	}

	rep, err := h.reps.Update(r.Context(), session, id, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeNotFound, "Rep not found"))
		return
	}

	if err := h.reps.Delete(r.Context(), session, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleUpload accepts either a JSON body {"rows": [...]} or a raw CSV body
// with a first_name,last_name,email,phone,agency,channel header.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return
	}

	var rows []service.UploadRow
	if isCSVRequest(r) {
		parsed, err := csvrows.Read(r.Body)
		if err != nil {
			httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid CSV file"))
			return
		}
		for _, row := range parsed {
			rows = append(rows, service.UploadRow{
				FirstName: row["first_name"],
				LastName:  row["last_name"],
				Email:     row["email"],
				Phone:     row["phone"],
				Agency:    row["agency"],
				Channel:   row["channel"],
			})
		}
	} else {
		var body struct {
			Rows []service.UploadRow `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid request body"))
			return
		}
		rows = body.Rows
	}

	if len(rows) == 0 {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "No data rows provided"))
		return
	}

	result, err := h.reps.Upload(r.Context(), session, rows)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func isCSVRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv")
}
