package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Guardian is one of a household's two contact slots. Email and phone are
// the matching keys for import reconciliation and are stored normalized
// (email lower-cased, phone digits only).
type Guardian struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Empty reports whether the slot carries no contact information.
func (g Guardian) Empty() bool {
	return g.Name == "" && g.Email == "" && g.Phone == ""
}

// Address is a household's postal address.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

// Household is the shared-contact unit ("family") linking players,
// guardians, and volunteers belonging to the same home.
//
// Workbond fields are owned by the import feed: unlike contact fields, they
// are overwritten wholesale on every import, including resets to empty.
type Household struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	SeasonID  string    `json:"season_id"`
	Guardian1 Guardian  `json:"guardian1"`
	Guardian2 Guardian  `json:"guardian2"`
	Address   Address   `json:"address"`

	WorkbondReceived bool   `json:"workbond_received"`
	WorkbondStatus   string `json:"workbond_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewHouseholdCode derives the human-readable household code from the ID.
func NewHouseholdCode(id uuid.UUID) string {
	return "HH-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
}

// GuardianEmails returns the non-empty guardian emails.
func (h *Household) GuardianEmails() []string {
	var out []string
	if h.Guardian1.Email != "" {
		out = append(out, h.Guardian1.Email)
	}
	if h.Guardian2.Email != "" {
		out = append(out, h.Guardian2.Email)
	}
	return out
}

// GuardianPhones returns the non-empty guardian phones.
func (h *Household) GuardianPhones() []string {
	var out []string
	if h.Guardian1.Phone != "" {
		out = append(out, h.Guardian1.Phone)
	}
	if h.Guardian2.Phone != "" {
		out = append(out, h.Guardian2.Phone)
	}
	return out
}
