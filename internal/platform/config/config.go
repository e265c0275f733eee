package config

import (
	"os"
	"strconv"
	"time"
)

// RosterCacheTTL bounds how long a fetched employee roster may be reused for
// login checks before the directory is consulted again.
var RosterCacheTTL = 5 * time.Minute

// Config captures everything the server needs from the environment.
type Config struct {
	Addr        string
	DatabaseURL string

	// Redis is optional; when unset the directory roster is fetched on
	// every login attempt.
	RedisURL string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	DirectoryURL   string
	DirectoryToken string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("TERRITORY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		// Development default - must be overridden in production
		sessionSecret = "dev-secret-key-change-in-production"
	}

	sessionTTL := 7 * 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			sessionTTL = time.Duration(hours) * time.Hour
		}
	}

	return Config{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SessionSecret:  sessionSecret,
		SessionTTL:     sessionTTL,
		CookieSecure:   os.Getenv("COOKIE_SECURE") == "true",
		DirectoryURL:   os.Getenv("DIRECTORY_URL"),
		DirectoryToken: os.Getenv("DIRECTORY_TOKEN"),
	}
}
