package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"territory/internal/assignment/models"
	"territory/internal/assignment/service"
	"territory/internal/auth"
	"territory/internal/platform/middleware"
	"territory/pkg/apperrors"
	"territory/pkg/csvrows"
	"territory/pkg/httputil"
)

// Service defines the assignment operations the HTTP layer needs.
type Service interface {
	Assign(ctx context.Context, session auth.Session, in service.AssignInput) (*models.Assignment, error)
	Remove(ctx context.Context, session auth.Session, zip, channel string) error
	Upload(ctx context.Context, session auth.Session, rows []service.UploadRow) (*service.UploadResult, error)
}

// Handler exposes /api/assignments. Every route requires a session.
type Handler struct {
	assignments    Service
	logger         *slog.Logger
	requireSession func(http.Handler) http.Handler
}

func New(assignments Service, logger *slog.Logger, requireSession func(http.Handler) http.Handler) *Handler {
	return &Handler{assignments: assignments, logger: logger, requireSession: requireSession}
}

// Register mounts the assignment routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Put("/api/assignments", h.handleAssign)
		r.Delete("/api/assignments", h.handleDelete)
		r.Post("/api/assignments/upload", h.handleUpload)
	})
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return
	}

	var in service.AssignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid request body"))
		return
	}

	assignment, err := h.assignments.Assign(r.Context(), session, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, assignment)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return
	}

	zip := r.URL.Query().Get("zip_code")
	channel := r.URL.Query().Get("channel")

	if err := h.assignments.Remove(r.Context(), session, zip, channel); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleUpload accepts either a JSON body {"rows": [...]} or a raw CSV body
// with a zip,rep_email header.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return
	}

	var rows []service.UploadRow
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		parsed, err := csvrows.Read(r.Body)
		if err != nil {
			httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid CSV file"))
			return
		}
		for _, row := range parsed {
			rows = append(rows, service.UploadRow{
				Zip:      row["zip"],
				RepEmail: row["rep_email"],
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

	result, err := h.assignments.Upload(r.Context(), session, rows)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
