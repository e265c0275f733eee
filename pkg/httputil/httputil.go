package httputil

import (
	"encoding/json"
	"net/http"

	"territory/pkg/apperrors"
)

// WriteJSON renders v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the shared JSON error envelope.
// Internal errors omit the description so store details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != apperrors.CodeInternal {
		body["error_description"] = err.Error()
	}
	WriteJSON(w, apperrors.ToHTTPStatus(code), body)
}
