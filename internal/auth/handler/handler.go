package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"territory/internal/auth"
	"territory/internal/auth/directory"
	"territory/internal/platform/middleware"
	"territory/pkg/apperrors"
	"territory/pkg/httputil"
	"territory/pkg/sentinel"
)

// Handler owns the login/logout/check endpoints and the session cookie.
type Handler struct {
	directory      directory.Directory
	sessions       *auth.Manager
	cookieSecure   bool
	logger         *slog.Logger
	requireSession func(http.Handler) http.Handler
}

func New(dir directory.Directory, sessions *auth.Manager, cookieSecure bool, logger *slog.Logger, requireSession func(http.Handler) http.Handler) *Handler {
	return &Handler{
		directory:      dir,
		sessions:       sessions,
		cookieSecure:   cookieSecure,
		logger:         logger,
		requireSession: requireSession,
	}
}

// Register mounts the auth routes. Login and logout are public; check runs
// behind the session middleware so an invalid cookie yields 401.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/logout", h.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/api/auth/check", h.handleCheck)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPayload struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Username and password are required"))
		return
	}

	employee, err := h.directory.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, directory.ErrInvalidCredentials) {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "Invalid username or password"))
		return
	}
	if errors.Is(err, sentinel.ErrUnavailable) {
		httputil.WriteError(w, apperrors.New(apperrors.CodeUnavailable, "Authentication service unavailable"))
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "login failed", "error", err)
		httputil.WriteError(w, apperrors.New(apperrors.CodeInternal, "Login failed"))
		return
	}

	session := auth.Session{
		UserID:   employee.ID,
		Username: employee.Username,
		FullName: employee.Name,
	}
	token, err := h.sessions.Issue(session)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue session token", "error", err)
		httputil.WriteError(w, apperrors.New(apperrors.CodeInternal, "Login failed"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userPayload{Username: session.Username, FullName: session.FullName},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userPayload{Username: session.Username, FullName: session.FullName},
	})
}
