package unmatched

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// PostgresStore persists the unmatched-record queue. Link runs the mark and
// the shift credit in one transaction with a conditional UPDATE as the
// already-matched gate, so two concurrent link passes cannot credit the
// same record twice.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `
	id, season_id, name, email, phone, shift_date, hours,
	matched, household_id, created_at, matched_at
`

func (s *PostgresStore) Create(ctx context.Context, record *models.UnmatchedRecord) error {
	query := `
		INSERT INTO unmatched_records (id, season_id, name, email, phone, shift_date, hours, matched, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW())
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.SeasonID, record.Name, record.Email, record.Phone,
		record.ShiftDate, record.Hours,
	)
	if err != nil {
		return fmt.Errorf("create unmatched record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.UnmatchedRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM unmatched_records WHERE id = $1`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find unmatched record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListUnmatched(ctx context.Context, seasonID string) ([]*models.UnmatchedRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM unmatched_records
		WHERE season_id = $1 AND matched = FALSE
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list unmatched records: %w", err)
	}
	defer rows.Close()

	var out []*models.UnmatchedRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unmatched record: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unmatched records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Link(ctx context.Context, recordID, householdID uuid.UUID, shift *models.WorkbondShift) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin link: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Conditional update: only an unmatched record transitions. Zero rows
	// means either missing or already matched; distinguish for the caller.
	result, err := tx.ExecContext(ctx, `
		UPDATE unmatched_records
		SET matched = TRUE, household_id = $2, matched_at = NOW()
		WHERE id = $1 AND matched = FALSE
	`, recordID, householdID)
	if err != nil {
		return fmt.Errorf("mark matched: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark matched rows affected: %w", err)
	}
	if rows == 0 {
		var matched bool
		err := tx.QueryRowContext(ctx, `SELECT matched FROM unmatched_records WHERE id = $1`, recordID).Scan(&matched)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check matched state: %w", err)
		}
		return sentinel.ErrAlreadyMatched
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workbond_shifts (id, season_id, household_id, shift_date, hours, source_record_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, shift.ID, shift.SeasonID, shift.HouseholdID, shift.ShiftDate, shift.Hours, shift.SourceRecordID)
	if err != nil {
		return fmt.Errorf("credit shift: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit link: %w", err)
	}
	return nil
}

type row interface {
	Scan(dest ...any) error
}

func scanRecord(r row) (*models.UnmatchedRecord, error) {
	var record models.UnmatchedRecord
	var householdID uuid.NullUUID
	var matchedAt sql.NullTime
	err := r.Scan(
		&record.ID, &record.SeasonID, &record.Name, &record.Email, &record.Phone,
		&record.ShiftDate, &record.Hours, &record.Matched, &householdID,
		&record.CreatedAt, &matchedAt,
	)
	if err != nil {
		return nil, err
	}
	if householdID.Valid {
		id := householdID.UUID
		record.HouseholdID = &id
	}
	if matchedAt.Valid {
		t := matchedAt.Time
		record.MatchedAt = &t
	}
	return &record, nil
}
