package models

import (
	"time"

	"github.com/google/uuid"

	repmodels "territory/internal/rep/models"
)

// Assignment maps a (zip code, channel) pair to its owning rep. Exactly one
// rep may hold a pair at a time; reassignment replaces the row. Zip codes are
// stored as text to preserve leading zeros.
type Assignment struct {
	ID        uuid.UUID         `json:"id"`
	ZipCode   string            `json:"zip_code"`
	Channel   repmodels.Channel `json:"channel"`
	RepID     uuid.UUID         `json:"rep_id"`
	CreatedAt time.Time         `json:"created_at"`
}

// WithRep is an assignment joined with its rep for lookup and audit output.
type WithRep struct {
	Assignment
	Rep *repmodels.Rep `json:"rep"`
}
