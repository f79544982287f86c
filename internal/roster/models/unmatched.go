package models

import (
	"time"

	"github.com/google/uuid"
)

// UnmatchedRecord holds a workbond-shift contact that could not be resolved
// to a household. It stays queued until an operator links it or an
// auto-link sweep succeeds; it is marked matched, never deleted.
type UnmatchedRecord struct {
	ID        uuid.UUID `json:"id"`
	SeasonID  string    `json:"season_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	ShiftDate string    `json:"shift_date,omitempty"`
	Hours     float64   `json:"hours,omitempty"`

	Matched     bool       `json:"matched"`
	HouseholdID *uuid.UUID `json:"household_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	MatchedAt *time.Time `json:"matched_at,omitempty"`
}

// WorkbondShift is the credited shift created when an unmatched record is
// linked, or directly when a shift row resolves on first pass.
type WorkbondShift struct {
	ID          uuid.UUID `json:"id"`
	SeasonID    string    `json:"season_id"`
	HouseholdID uuid.UUID `json:"household_id"`
	ShiftDate   string    `json:"shift_date,omitempty"`
	Hours       float64   `json:"hours"`

	// SourceRecordID ties a credited shift back to the unmatched record it
	// was created from, which is what makes link and sweep idempotent.
	SourceRecordID *uuid.UUID `json:"source_record_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
