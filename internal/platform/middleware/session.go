package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"territory/internal/auth"
)

// SessionVerifier validates a raw session token.
type SessionVerifier interface {
	Verify(token string) (*auth.Session, error)
}

type contextKeySession struct{}

// ContextKeySession is exported for use in handlers.
var ContextKeySession = contextKeySession{}

// GetSession retrieves the authenticated session from the context.
func GetSession(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(ContextKeySession).(auth.Session)
	return s, ok
}

// RequireSession rejects any request without a valid session cookie. The
// session is stashed in the context for handlers and the audit recorder.
func RequireSession(verifier SessionVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			session, err := verifier.Verify(cookie.Value)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "rejected invalid session token",
					"request_id", GetRequestID(ctx),
				)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, *session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Unauthorized"}`))
}
