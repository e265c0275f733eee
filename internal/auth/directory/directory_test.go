package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"territory/pkg/sentinel"
)

func newRosterServer(t *testing.T, employees []Employee) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer roster-token" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string][]Employee{"employees": employees})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewClient(baseURL, "roster-token", nil, logger)
}

func TestAuthenticate(t *testing.T) {
	roster := []Employee{
		{ID: "e-1", Name: "Admin User", Username: "admin", Password: "hunter2"},
		{ID: "e-2", Name: "Second User", Username: "second", Password: "letmein"},
	}
	srv := newRosterServer(t, roster)
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		employee, err := client.Authenticate(ctx, "admin", "hunter2")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if employee.ID != "e-1" || employee.Name != "Admin User" {
			t.Fatalf("unexpected employee: %+v", employee)
		}
	})

	t.Run("username matches case-insensitively", func(t *testing.T) {
		if _, err := client.Authenticate(ctx, "ADMIN", "hunter2"); err != nil {
			t.Fatalf("expected case-insensitive match, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := client.Authenticate(ctx, "admin", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := client.Authenticate(ctx, "nobody", "hunter2")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthenticateDirectoryDown(t *testing.T) {
	srv := newRosterServer(t, nil)
	client := newTestClient(t, srv.URL)
	srv.Close()

	_, err := client.Authenticate(context.Background(), "admin", "hunter2")
	if !errors.Is(err, sentinel.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable when roster fetch fails, got %v", err)
	}
}

func TestAuthenticateDirectoryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL)
	_, err := client.Authenticate(context.Background(), "admin", "hunter2")
	if !errors.Is(err, sentinel.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on non-200, got %v", err)
	}
}

func TestStaticDirectory(t *testing.T) {
	dir := &Static{Employees: []Employee{
		{ID: "e-1", Name: "Admin User", Username: "admin", Password: "hunter2"},
	}}

	if _, err := dir.Authenticate(context.Background(), "Admin", "hunter2"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := dir.Authenticate(context.Background(), "admin", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
