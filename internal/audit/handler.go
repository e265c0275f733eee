package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"territory/pkg/apperrors"
	"territory/pkg/httputil"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ListResponse is one page of the audit trail.
type ListResponse struct {
	Data   []Entry `json:"data"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// Handler exposes the read-only audit trail.
type Handler struct {
	store          Store
	logger         *slog.Logger
	requireSession func(http.Handler) http.Handler
}

func NewHandler(store Store, logger *slog.Logger, requireSession func(http.Handler) http.Handler) *Handler {
	return &Handler{store: store, logger: logger, requireSession: requireSession}
}

// Register mounts the audit routes. The trail names users, so it is
// session-gated.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/api/audit-log", h.handleList)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := parseIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list audit entries", "error", err)
		httputil.WriteError(w, apperrors.New(apperrors.CodeInternal, "Failed to fetch audit log"))
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	httputil.WriteJSON(w, http.StatusOK, ListResponse{
		Data:   entries,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
