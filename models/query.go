package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryType distinguishes how an interaction arrived
type QueryType string

const (
	QueryTypeText  QueryType = "text"
	QueryTypeAudio QueryType = "audio"
)

// Query is a stored interaction record: what the user asked and what the
// system answered. Stored best effort; no core logic depends on it.
type Query struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             *uuid.UUID `json:"user_id,omitempty"`
	QueryText          string     `json:"query_text"`
	QueryType          QueryType  `json:"query_type"`
	Response           string     `json:"response,omitempty"`
	SimplifiedResponse *string    `json:"simplified_response,omitempty"`
	AudioURL           *string    `json:"audio_url,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Favorite links a user to a legislative document they bookmarked
type Favorite struct {
	ID            uuid.UUID            `json:"id"`
	UserID        uuid.UUID            `json:"user_id"`
	LegislationID uuid.UUID            `json:"legislation_id"`
	Notes         *string              `json:"notes,omitempty"`
	Legislation   *LegislativeDocument `json:"legislation,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}
