// Package lookup serves the anonymous zip-code lookup page's API: who covers
// a zip, one rep per channel.
package lookup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"territory/internal/assignment/models"
	repmodels "territory/internal/rep/models"
	"territory/pkg/apperrors"
	"territory/pkg/httputil"
	"territory/pkg/validate"
)

// Service resolves a zip to its assignments.
type Service interface {
	Lookup(ctx context.Context, zip string) ([]*models.WithRep, error)
}

// Response always carries every channel; unassigned channels are null.
type Response struct {
	Zip  string                               `json:"zip"`
	Reps map[repmodels.Channel]*repmodels.Rep `json:"reps"`
}

type Handler struct {
	assignments Service
	logger      *slog.Logger
}

func New(assignments Service, logger *slog.Logger) *Handler {
	return &Handler{assignments: assignments, logger: logger}
}

// Register mounts the public lookup route. No session required.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/get-reps", h.handleGetReps)
}

func (h *Handler) handleGetReps(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip")
	if zip == "" {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Missing required parameter: zip"))
		return
	}
	if !validate.ZipCode(zip) {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid zip code format. Must be 5 digits."))
		return
	}

	assignments, err := h.assignments.Lookup(r.Context(), zip)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := Response{
		Zip:  zip,
		Reps: make(map[repmodels.Channel]*repmodels.Rep, len(repmodels.Channels)),
	}
	for _, channel := range repmodels.Channels {
		resp.Reps[channel] = nil
	}
	for _, a := range assignments {
		if a.Channel.Valid() {
			resp.Reps[a.Channel] = a.Rep
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
