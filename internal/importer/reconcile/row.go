package reconcile

import (
	"strconv"

	"leaguedesk/internal/importer/normalize"
	"leaguedesk/internal/roster/models"
)

// RawRow is one import record as it arrives: a flat mapping of
// CSV-header-derived keys to string values, blanks included.
type RawRow map[string]string

// Recognized header keys. Import feeds vary in casing and spacing upstream;
// the HTTP layer lower-snake-cases headers before rows reach the engine.
const (
	keyGivenName      = "first_name"
	keyFamilyName     = "last_name"
	keyBirthDate      = "birth_date"
	keyRegistrationID = "registration_id"
	keyRole           = "role"
	keyProgram        = "program"
	keyActive         = "active"
	keyPaymentStatus  = "payment_status"
	keyWorkbond       = "workbond_status"

	keyGuardian1Name  = "guardian1_name"
	keyGuardian1Email = "guardian1_email"
	keyGuardian1Phone = "guardian1_phone"
	keyGuardian2Name  = "guardian2_name"
	keyGuardian2Email = "guardian2_email"
	keyGuardian2Phone = "guardian2_phone"

	keyStreet = "street"
	keyCity   = "city"
	keyZip    = "zip"

	// Shift feeds identify the worker, not a player.
	keyContactName  = "name"
	keyContactEmail = "email"
	keyContactPhone = "phone"
	keyShiftDate    = "shift_date"
	keyHours        = "hours"
)

// Row is one import record after normalization.
type Row struct {
	Index int // 1-based position in the submitted batch

	GivenName      string
	FamilyName     string
	BirthDate      string
	RegistrationID string
	Role           models.Role
	Program        string
	Active         bool
	PaymentOK      bool

	Guardian1 models.Guardian
	Guardian2 models.Guardian
	Address   models.Address

	WorkbondStatus   string
	WorkbondReceived bool

	ContactName  string
	ContactEmail string
	ContactPhone string
	ShiftDate    string
	Hours        float64
}

// ParseRow normalizes one raw record. Total: malformed cells degrade to
// zero values and are caught, if identity-critical, by row validation.
func ParseRow(raw RawRow, index int) Row {
	row := Row{
		Index:          index,
		GivenName:      normalize.Name(raw[keyGivenName]),
		FamilyName:     normalize.Name(raw[keyFamilyName]),
		BirthDate:      normalize.Date(raw[keyBirthDate]),
		RegistrationID: normalize.Name(raw[keyRegistrationID]),
		Role:           models.ParseRole(raw[keyRole]),
		Program:        normalize.Name(raw[keyProgram]),
		Active:         normalize.Bool(raw[keyActive]),
		PaymentOK:      normalize.PaymentOK(raw[keyPaymentStatus]),
		Guardian1: models.Guardian{
			Name:  normalize.Name(raw[keyGuardian1Name]),
			Email: normalize.Email(raw[keyGuardian1Email]),
			Phone: normalize.Phone(raw[keyGuardian1Phone]),
		},
		Guardian2: models.Guardian{
			Name:  normalize.Name(raw[keyGuardian2Name]),
			Email: normalize.Email(raw[keyGuardian2Email]),
			Phone: normalize.Phone(raw[keyGuardian2Phone]),
		},
		Address: models.Address{
			Street: normalize.Name(raw[keyStreet]),
			City:   normalize.Name(raw[keyCity]),
			Zip:    normalize.Name(raw[keyZip]),
		},
		WorkbondStatus:   normalize.Name(raw[keyWorkbond]),
		WorkbondReceived: normalize.WorkbondReceived(raw[keyWorkbond]),
		ContactName:      normalize.Name(raw[keyContactName]),
		ContactEmail:     normalize.Email(raw[keyContactEmail]),
		ContactPhone:     normalize.Phone(raw[keyContactPhone]),
		ShiftDate:        normalize.Date(raw[keyShiftDate]),
	}
	if hours, err := strconv.ParseFloat(raw[keyHours], 64); err == nil && hours > 0 {
		row.Hours = hours
	}
	// Rows without an explicit active column count as active; OnlyActive
	// filtering should not drop feeds that never carry the column.
	if _, present := raw[keyActive]; !present {
		row.Active = true
	}
	return row
}
