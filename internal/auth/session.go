package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "session"

// Session identifies the acting admin for every state-changing call.
type Session struct {
	UserID   string
	Username string
	FullName string
}

// ErrInvalidSession covers expired, malformed and mis-signed tokens alike so
// callers can't distinguish why a session was rejected.
var ErrInvalidSession = errors.New("invalid session")

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Manager issues and verifies the HS256 session tokens carried in the
// session cookie.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token carrying the session identity.
func (m *Manager) Issue(s Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: s.Username,
		FullName: s.FullName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the session it carries.
func (m *Manager) Verify(tokenString string) (*Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return &Session{
		UserID:   claims.Subject,
		Username: claims.Username,
		FullName: claims.FullName,
	}, nil
}
