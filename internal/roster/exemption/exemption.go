// Package exemption decides whether a person is excused from workbond
// obligations. The decision is computed once per row from the closed Role
// set plus a board-membership directory check, then passed through; call
// sites never re-derive it from free-text role strings.
package exemption

import (
	"context"

	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/ports"
)

// Status is the computed exemption decision for one person.
type Status struct {
	Exempt bool
	Reason string
}

// Determine evaluates the exemption predicate. A directory failure is
// returned alongside the safe default (not exempt) so callers can record a
// warning without failing the row.
func Determine(ctx context.Context, directory ports.ContactDirectory, role models.Role, email, name string) (Status, error) {
	switch role {
	case models.RoleBoard:
		return Status{Exempt: true, Reason: "board role"}, nil
	case models.RoleCoach:
		return Status{Exempt: true, Reason: "coaching staff"}, nil
	}

	if directory == nil || email == "" && name == "" {
		return Status{}, nil
	}

	isBoard, err := directory.IsBoardMember(ctx, email, name)
	if err != nil {
		return Status{}, err
	}
	if isBoard {
		return Status{Exempt: true, Reason: "board membership"}, nil
	}
	return Status{}, nil
}
