// Package directory authenticates logins against the company employee
// directory. The directory is an external HTTP service owning the roster; this
// package only reads it.
package directory

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"territory/internal/platform/config"
	"territory/internal/platform/redis"
	"territory/pkg/sentinel"
)

// Employee is one directory record as the roster endpoint serves it.
type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ErrInvalidCredentials is returned for unknown usernames and wrong passwords
// alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Directory checks a username/password pair against the roster.
type Directory interface {
	Authenticate(ctx context.Context, username, password string) (*Employee, error)
}

const rosterCacheKey = "directory:roster"

// Client fetches the roster over HTTP, optionally caching it in Redis so a
// burst of logins doesn't hammer the directory service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *redis.Client
	logger  *slog.Logger
}

func NewClient(baseURL, token string, cache *redis.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		logger:  logger,
	}
}

// Authenticate matches the username case-insensitively, then compares the
// password in constant time. Roster fetch failures surface as
// sentinel.ErrUnavailable rather than a credentials error.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*Employee, error) {
	employees, err := c.roster(ctx)
	if err != nil {
		return nil, err
	}

	for i := range employees {
		e := &employees[i]
		if !strings.EqualFold(e.Username, username) {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(e.Password), []byte(password)) != 1 {
			return nil, ErrInvalidCredentials
		}
		return e, nil
	}
	return nil, ErrInvalidCredentials
}

func (c *Client) roster(ctx context.Context) ([]Employee, error) {
	if cached, ok := c.cachedRoster(ctx); ok {
		return cached, nil
	}

	employees, err := c.fetchRoster(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to fetch employee roster", "error", err)
		return nil, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}

	c.storeRoster(ctx, employees)
	return employees, nil
}

func (c *Client) fetchRoster(ctx context.Context) ([]Employee, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/employees", nil)
	if err != nil {
		return nil, fmt.Errorf("build roster request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster request returned %d", resp.StatusCode)
	}

	var body struct {
		Employees []Employee `json:"employees"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return body.Employees, nil
}

func (c *Client) cachedRoster(ctx context.Context) ([]Employee, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, rosterCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var employees []Employee
	if err := json.Unmarshal(raw, &employees); err != nil {
		c.logger.WarnContext(ctx, "discarding malformed cached roster", "error", err)
		return nil, false
	}
	return employees, true
}

func (c *Client) storeRoster(ctx context.Context, employees []Employee) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(employees)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, rosterCacheKey, raw, config.RosterCacheTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache roster", "error", err)
	}
}

// Static serves a fixed roster. Used in tests and local development when no
// directory service is reachable.
type Static struct {
	Employees []Employee
}

func (s *Static) Authenticate(_ context.Context, username, password string) (*Employee, error) {
	for i := range s.Employees {
		e := &s.Employees[i]
		if strings.EqualFold(e.Username, username) &&
			subtle.ConstantTimeCompare([]byte(e.Password), []byte(password)) == 1 {
			return e, nil
		}
	}
	return nil, ErrInvalidCredentials
}
