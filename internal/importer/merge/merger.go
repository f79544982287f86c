// Package merge computes minimal field-level diffs between stored records
// and incoming import values. Contact and link fields are cumulative
// knowledge: an empty incoming value never erases what is already known.
// Workbond and payment fields are owned by the import feed and follow the
// opposite rule: the latest import's value replaces the stored one, empty
// meaning "reset to not-received".
package merge

import (
	"sort"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
)

// Diff is the minimal update set: field key to new value. Callers apply
// only changed keys; an empty diff means no write at all.
type Diff map[string]any

// Household field keys.
const (
	FieldGuardian1Name  = "guardian1_name"
	FieldGuardian1Email = "guardian1_email"
	FieldGuardian1Phone = "guardian1_phone"
	FieldGuardian2Name  = "guardian2_name"
	FieldGuardian2Email = "guardian2_email"
	FieldGuardian2Phone = "guardian2_phone"
	FieldStreet         = "street"
	FieldCity           = "city"
	FieldZip            = "zip"
	FieldWorkbondStatus = "workbond_status"
	FieldWorkbondRecvd  = "workbond_received"
)

// Person field keys.
const (
	FieldBirthDate      = "birth_date"
	FieldRegistrationID = "registration_id"
	FieldRole           = "role"
	FieldProgram        = "program"
	FieldHouseholdID    = "household_id"
	FieldActive         = "active"
	FieldPaymentOK      = "payment_ok"
)

// Options controls feed-owned field handling for one import.
type Options struct {
	// ClearWorkbondIfEmpty makes an empty incoming workbond status reset
	// the stored compliance state instead of leaving it untouched.
	ClearWorkbondIfEmpty bool
}

// Fields lists a diff's keys in stable order, for audit events.
func (d Diff) Fields() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Household computes the update set for an existing household given the
// incoming normalized values. Guardian contact and address fields follow
// the cumulative rule; workbond fields follow the feed-owned rule.
func Household(existing, incoming *models.Household, opts Options) Diff {
	diff := Diff{}

	// Guardians merge against a working copy so the first contact's slot
	// claim is visible when slotting the second. Without it two new
	// contacts would both resolve to the same free slot and splice into
	// one record.
	work := *existing
	mergeGuardian(diff, &work, incoming.Guardian1)
	mergeGuardian(diff, &work, incoming.Guardian2)

	setIfNewString(diff, FieldStreet, existing.Address.Street, incoming.Address.Street)
	setIfNewString(diff, FieldCity, existing.Address.City, incoming.Address.City)
	setIfNewString(diff, FieldZip, existing.Address.Zip, incoming.Address.Zip)

	if incoming.WorkbondStatus != "" || opts.ClearWorkbondIfEmpty {
		if incoming.WorkbondStatus != existing.WorkbondStatus {
			diff[FieldWorkbondStatus] = incoming.WorkbondStatus
		}
		if incoming.WorkbondReceived != existing.WorkbondReceived {
			diff[FieldWorkbondRecvd] = incoming.WorkbondReceived
		}
	}

	return diff
}

// mergeGuardian folds one incoming contact set into the household's two
// guardian slots. The slot is chosen by email, then phone; an unrecognized
// contact fills the first empty slot; with both slots occupied the incoming
// contact is dropped whole, since guardian slots are cumulative knowledge,
// not a rotation. The merged values are written back onto work so a later
// contact in the same call sees the slot as claimed.
func mergeGuardian(diff Diff, work *models.Household, incoming models.Guardian) {
	if incoming.Empty() {
		return
	}

	slot := 0
	switch {
	case incoming.Email != "" && incoming.Email == work.Guardian1.Email:
		slot = 1
	case incoming.Email != "" && incoming.Email == work.Guardian2.Email:
		slot = 2
	case incoming.Phone != "" && incoming.Phone == work.Guardian1.Phone:
		slot = 1
	case incoming.Phone != "" && incoming.Phone == work.Guardian2.Phone:
		slot = 2
	case work.Guardian1.Empty():
		slot = 1
	case work.Guardian2.Empty():
		slot = 2
	default:
		return
	}

	current := &work.Guardian1
	nameKey, emailKey, phoneKey := FieldGuardian1Name, FieldGuardian1Email, FieldGuardian1Phone
	if slot == 2 {
		current = &work.Guardian2
		nameKey, emailKey, phoneKey = FieldGuardian2Name, FieldGuardian2Email, FieldGuardian2Phone
	}

	setIfNewString(diff, nameKey, current.Name, incoming.Name)
	setIfNewString(diff, emailKey, current.Email, incoming.Email)
	setIfNewString(diff, phoneKey, current.Phone, incoming.Phone)

	if incoming.Name != "" {
		current.Name = incoming.Name
	}
	if incoming.Email != "" {
		current.Email = incoming.Email
	}
	if incoming.Phone != "" {
		current.Phone = incoming.Phone
	}
}

// Person computes the update set for an existing person. Identity and link
// fields are cumulative; payment status is feed-owned.
func Person(existing, incoming *models.Person, opts Options) Diff {
	diff := Diff{}

	setIfNewString(diff, FieldBirthDate, existing.BirthDate, incoming.BirthDate)
	setIfNewString(diff, FieldRegistrationID, existing.RegistrationID, incoming.RegistrationID)
	setIfNewString(diff, FieldProgram, existing.Program, incoming.Program)

	if incoming.Role != models.RoleUnknown && incoming.Role != existing.Role {
		diff[FieldRole] = incoming.Role
	}
	if incoming.Active != existing.Active {
		diff[FieldActive] = incoming.Active
	}
	if incoming.PaymentOK != existing.PaymentOK {
		diff[FieldPaymentOK] = incoming.PaymentOK
	}

	if final := Link(existing.HouseholdID, incoming.HouseholdID); !uuidEqual(final, existing.HouseholdID) {
		diff[FieldHouseholdID] = final
	}

	return diff
}

// Link applies the household-link preservation rule: an empty incoming link
// never clears an established one. A non-empty incoming link replaces the
// existing link, since it was discovered by the same resolution machinery
// with equal or better evidence.
func Link(existing, incoming *uuid.UUID) *uuid.UUID {
	if incoming == nil {
		return existing
	}
	return incoming
}

// ApplyHousehold writes a diff onto the household in place.
func ApplyHousehold(h *models.Household, diff Diff) {
	for key, value := range diff {
		switch key {
		case FieldGuardian1Name:
			h.Guardian1.Name = value.(string)
		case FieldGuardian1Email:
			h.Guardian1.Email = value.(string)
		case FieldGuardian1Phone:
			h.Guardian1.Phone = value.(string)
		case FieldGuardian2Name:
			h.Guardian2.Name = value.(string)
		case FieldGuardian2Email:
			h.Guardian2.Email = value.(string)
		case FieldGuardian2Phone:
			h.Guardian2.Phone = value.(string)
		case FieldStreet:
			h.Address.Street = value.(string)
		case FieldCity:
			h.Address.City = value.(string)
		case FieldZip:
			h.Address.Zip = value.(string)
		case FieldWorkbondStatus:
			h.WorkbondStatus = value.(string)
		case FieldWorkbondRecvd:
			h.WorkbondReceived = value.(bool)
		}
	}
}

// ApplyPerson writes a diff onto the person in place.
func ApplyPerson(p *models.Person, diff Diff) {
	for key, value := range diff {
		switch key {
		case FieldBirthDate:
			p.BirthDate = value.(string)
		case FieldRegistrationID:
			p.RegistrationID = value.(string)
		case FieldProgram:
			p.Program = value.(string)
		case FieldRole:
			p.Role = value.(models.Role)
		case FieldActive:
			p.Active = value.(bool)
		case FieldPaymentOK:
			p.PaymentOK = value.(bool)
		case FieldHouseholdID:
			p.HouseholdID = value.(*uuid.UUID)
		}
	}
}

func setIfNewString(diff Diff, key, existing, incoming string) {
	if incoming != "" && incoming != existing {
		diff[key] = incoming
	}
}

func uuidEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
