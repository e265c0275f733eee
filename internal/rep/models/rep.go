package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel is one of the fixed business lines that partition territory
// coverage. Matching is case-sensitive everywhere.
type Channel string

const (
	ChannelGolf  Channel = "Golf"
	ChannelPromo Channel = "Promo"
	ChannelGift  Channel = "Gift"
)

// Channels lists every valid channel in display order.
var Channels = []Channel{ChannelGolf, ChannelPromo, ChannelGift}

// Valid reports whether c is one of the fixed channel values.
func (c Channel) Valid() bool {
	switch c {
	case ChannelGolf, ChannelPromo, ChannelGift:
		return true
	}
	return false
}

// Rep is a sales representative. Email is the natural key, unique
// case-insensitively; Phone and Agency are optional.
type Rep struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Agency    *string   `json:"agency"`
	Channel   Channel   `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins first and last name for audit descriptions.
func (r *Rep) FullName() string {
	return r.FirstName + " " + r.LastName
}

// DisplayName appends the agency when present.
func (r *Rep) DisplayName() string {
	if r.Agency != nil && *r.Agency != "" {
		return r.FullName() + " (" + *r.Agency + ")"
	}
	return r.FullName()
}
