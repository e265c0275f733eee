package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	assignmentmodels "territory/internal/assignment/models"
	"territory/internal/assignment/service"
	"territory/internal/assignment/store"
	"territory/internal/audit"
	repmodels "territory/internal/rep/models"
	repstore "territory/internal/rep/store"
)

func newLookupRouter(t *testing.T) (http.Handler, *repstore.InMemory, *store.InMemory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	reps := repstore.NewInMemory()
	assignments := store.NewInMemory(reps)
	recorder := audit.NewRecorder(audit.NewInMemoryStore(), logger)
	svc := service.New(assignments, reps, recorder, nil, logger)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, reps, assignments
}

func TestMissingZipParameter(t *testing.T) {
	router, _, _ := newLookupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/get-reps", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without zip, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing required parameter: zip") {
		t.Fatalf("expected missing-zip message, got %s", rec.Body.String())
	}
}

func TestInvalidZipFormat(t *testing.T) {
	router, _, _ := newLookupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/get-reps?zip=12ab5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad zip, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid zip code format. Must be 5 digits.") {
		t.Fatalf("expected invalid-zip message, got %s", rec.Body.String())
	}
}

func TestLookupCoversEveryChannel(t *testing.T) {
	router, reps, assignments := newLookupRouter(t)
	ctx := context.Background()

	rep := &repmodels.Rep{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Channel:   repmodels.ChannelGolf,
	}
	if err := reps.Create(ctx, rep); err != nil {
		t.Fatalf("failed to seed rep: %v", err)
	}
	err := assignments.Upsert(ctx, &assignmentmodels.Assignment{
		ID:      uuid.New(),
		ZipCode: "30301",
		Channel: repmodels.ChannelGolf,
		RepID:   rep.ID,
	})
	if err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/get-reps?zip=30301", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 looking up zip, got %d", rec.Code)
	}

	var resp struct {
		Zip  string                      `json:"zip"`
		Reps map[string]*json.RawMessage `json:"reps"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode lookup response: %v", err)
	}
	if resp.Zip != "30301" {
		t.Fatalf("expected zip 30301, got %s", resp.Zip)
	}
	if len(resp.Reps) != 3 {
		t.Fatalf("expected all three channels in response, got %d", len(resp.Reps))
	}
	for _, channel := range []string{"Promo", "Gift"} {
		raw, ok := resp.Reps[channel]
		if !ok {
			t.Fatalf("expected %s key in response", channel)
		}
		if raw != nil && string(*raw) != "null" {
			t.Fatalf("expected %s to be null, got %s", channel, string(*raw))
		}
	}
	golf, ok := resp.Reps["Golf"]
	if !ok || golf == nil || string(*golf) == "null" {
		t.Fatalf("expected Golf rep in response")
	}
}
