package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a person can hold in a season. Free-text
// role strings from import feeds are classified once, at normalization
// time, never re-derived by substring checks downstream.
type Role string

const (
	RolePlayer    Role = "player"
	RoleVolunteer Role = "volunteer"
	RoleCoach     Role = "coach"
	RoleReferee   Role = "referee"
	RoleBoard     Role = "board"
	RoleUnknown   Role = "unknown"
)

// ParseRole classifies a raw role string into the closed Role set.
func ParseRole(raw string) Role {
	switch {
	case raw == "":
		return RoleUnknown
	case containsFold(raw, "board"), containsFold(raw, "director"):
		return RoleBoard
	case containsFold(raw, "coach"):
		return RoleCoach
	case containsFold(raw, "ref"):
		return RoleReferee
	case containsFold(raw, "volunteer"):
		return RoleVolunteer
	case containsFold(raw, "player"):
		return RolePlayer
	default:
		return RoleUnknown
	}
}

// Person is a player or volunteer record tied to a season and, usually, a
// household.
//
// HouseholdID is the household link. Once set, automated reconciliation
// never nulls it; it may only be replaced by a link discovered with equal
// or higher-confidence evidence.
type Person struct {
	ID             uuid.UUID  `json:"id"`
	SeasonID       string     `json:"season_id"`
	GivenName      string     `json:"given_name"`
	FamilyName     string     `json:"family_name"`
	BirthDate      string     `json:"birth_date,omitempty"`
	RegistrationID string     `json:"registration_id,omitempty"`
	Role           Role       `json:"role"`
	Program        string     `json:"program,omitempty"`
	HouseholdID    *uuid.UUID `json:"household_id,omitempty"`
	Active         bool       `json:"active"`
	PaymentOK      bool       `json:"payment_ok"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
