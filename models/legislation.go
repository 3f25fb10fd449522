package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tags is a set of free-text tags attached to a legislative document
type Tags []string

// Value implements driver.Valuer for JSONB
func (t Tags) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = make(Tags, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*t = make(Tags, 0)
		return nil
	}

	if len(bytes) == 0 {
		*t = make(Tags, 0)
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// RawData holds the untouched provider payload for a document
type RawData map[string]interface{}

// Value implements driver.Valuer for JSONB
func (r RawData) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *RawData) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// LegislativeDocument is the normalized record for a law, bill or official
// notice from any supported data provider. It is immutable per request;
// persistence is handled separately by the legislation repository.
type LegislativeDocument struct {
	ID               uuid.UUID  `json:"id"`
	ExternalID       string     `json:"external_id"`
	Source           string     `json:"source"` // camara, senado, lexml, querido_diario
	Type             string     `json:"type"`   // PL, PEC, LEI, etc
	Number           string     `json:"number"`
	Year             int        `json:"year"`
	Title            string     `json:"title"`
	Summary          string     `json:"summary,omitempty"`
	FullText         string     `json:"full_text,omitempty"`
	SimplifiedText   string     `json:"simplified_text,omitempty"`
	Status           string     `json:"status,omitempty"`
	Author           string     `json:"author,omitempty"`
	PresentationDate *time.Time `json:"presentation_date,omitempty"`
	URL              string     `json:"url,omitempty"`
	URN              string     `json:"urn,omitempty"`
	Category         string     `json:"category,omitempty"`
	Tags             Tags       `json:"tags,omitempty"`
	RawData          RawData    `json:"raw_data,omitempty"`
	CreatedAt        time.Time  `json:"created_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at,omitempty"`
}

// DedupKey identifies a document across providers. Two documents with the
// same type, number and year are considered the same norm.
func (d *LegislativeDocument) DedupKey() string {
	return fmt.Sprintf("%s/%s/%d", d.Type, d.Number, d.Year)
}
