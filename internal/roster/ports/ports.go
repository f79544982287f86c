// Package ports defines shared interfaces for the roster module.
// Interfaces live here when consumed by multiple services to avoid
// duplication; implementations live under internal/roster/store.
package ports

import (
	"context"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/audit"
)

// AuditPublisher emits audit events for reconciliation outcomes.
type AuditPublisher = audit.Publisher

// HouseholdStore persists households. Stores are pure I/O: matching policy,
// merge rules, and normalization live in the importer packages.
type HouseholdStore interface {
	Create(ctx context.Context, household *models.Household) error

	// Update overwrites the stored row. Callers only invoke it when the
	// merger produced a non-empty diff.
	Update(ctx context.Context, household *models.Household) error

	// Delete removes a household. Used only to compensate a row whose
	// person write failed after this row created the household, keeping
	// the per-row all-or-nothing guarantee.
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error)

	// FindByGuardianEmail matches either guardian email field,
	// case-insensitively, within a season.
	FindByGuardianEmail(ctx context.Context, seasonID, email string) ([]*models.Household, error)

	// FindByPhoneSuffix returns households where either guardian phone ends
	// with the given digits. A coarse pre-filter; callers confirm with an
	// exact digits-only comparison.
	FindByPhoneSuffix(ctx context.Context, seasonID, suffix string) ([]*models.Household, error)

	ListBySeason(ctx context.Context, seasonID string) ([]*models.Household, error)
}

// PersonStore persists season-scoped person records.
type PersonStore interface {
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error)

	// FindByName matches given+family name case-insensitively within a
	// season.
	FindByName(ctx context.Context, seasonID, givenName, familyName string) ([]*models.Person, error)

	FindByRegistrationID(ctx context.Context, seasonID, registrationID string) ([]*models.Person, error)
}

// UnmatchedStore persists the queue of shift records that could not be
// resolved to a household.
type UnmatchedStore interface {
	Create(ctx context.Context, record *models.UnmatchedRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.UnmatchedRecord, error)
	ListUnmatched(ctx context.Context, seasonID string) ([]*models.UnmatchedRecord, error)

	// Link atomically marks the record matched and credits the dependent
	// shift. Returns sentinel.ErrAlreadyMatched when the record was linked
	// by an earlier pass, in which case no duplicate shift is created.
	Link(ctx context.Context, recordID, householdID uuid.UUID, shift *models.WorkbondShift) error
}

// ShiftStore persists credited workbond shifts.
type ShiftStore interface {
	Create(ctx context.Context, shift *models.WorkbondShift) error
	ListByHousehold(ctx context.Context, seasonID string, householdID uuid.UUID) ([]*models.WorkbondShift, error)
}

// ProgressStore records per-batch chunk progress for callers that poll
// instead of waiting on the import response.
type ProgressStore interface {
	Save(ctx context.Context, progress *models.BatchProgress) error
	Get(ctx context.Context, batchID string) (*models.BatchProgress, error)
}

// ContactDirectory is the external collaborator consulted for
// board-membership exemption checks. Read-only.
type ContactDirectory interface {
	IsBoardMember(ctx context.Context, email, name string) (bool, error)
}
