package shift

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
)

// PostgresStore persists credited workbond shifts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, shift *models.WorkbondShift) error {
	query := `
		INSERT INTO workbond_shifts (id, season_id, household_id, shift_date, hours, source_record_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := s.db.ExecContext(ctx, query,
		shift.ID, shift.SeasonID, shift.HouseholdID, shift.ShiftDate, shift.Hours, shift.SourceRecordID,
	)
	if err != nil {
		return fmt.Errorf("create workbond shift: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByHousehold(ctx context.Context, seasonID string, householdID uuid.UUID) ([]*models.WorkbondShift, error) {
	query := `
		SELECT id, season_id, household_id, shift_date, hours, source_record_id, created_at
		FROM workbond_shifts
		WHERE season_id = $1 AND household_id = $2
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, seasonID, householdID)
	if err != nil {
		return nil, fmt.Errorf("list workbond shifts: %w", err)
	}
	defer rows.Close()

	var out []*models.WorkbondShift
	for rows.Next() {
		var shift models.WorkbondShift
		var source uuid.NullUUID
		if err := rows.Scan(&shift.ID, &shift.SeasonID, &shift.HouseholdID, &shift.ShiftDate, &shift.Hours, &source, &shift.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan workbond shift: %w", err)
		}
		if source.Valid {
			id := source.UUID
			shift.SourceRecordID = &id
		}
		out = append(out, &shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workbond shifts: %w", err)
	}
	return out, nil
}
