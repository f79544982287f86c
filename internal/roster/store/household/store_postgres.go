package household

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// PostgresStore persists households. Pure I/O; matching policy and merge
// rules live in the importer packages.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const householdColumns = `
	id, code, season_id,
	guardian1_name, guardian1_email, guardian1_phone,
	guardian2_name, guardian2_email, guardian2_phone,
	street, city, zip,
	workbond_received, workbond_status,
	created_at, updated_at
`

func (s *PostgresStore) Create(ctx context.Context, h *models.Household) error {
	query := `
		INSERT INTO households (` + householdColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := s.db.ExecContext(ctx, query,
		h.ID, h.Code, h.SeasonID,
		h.Guardian1.Name, h.Guardian1.Email, h.Guardian1.Phone,
		h.Guardian2.Name, h.Guardian2.Email, h.Guardian2.Phone,
		h.Address.Street, h.Address.City, h.Address.Zip,
		h.WorkbondReceived, h.WorkbondStatus,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create household: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, h *models.Household) error {
	query := `
		UPDATE households SET
			guardian1_name = $2, guardian1_email = $3, guardian1_phone = $4,
			guardian2_name = $5, guardian2_email = $6, guardian2_phone = $7,
			street = $8, city = $9, zip = $10,
			workbond_received = $11, workbond_status = $12,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.Guardian1.Name, h.Guardian1.Email, h.Guardian1.Phone,
		h.Guardian2.Name, h.Guardian2.Email, h.Guardian2.Phone,
		h.Address.Street, h.Address.City, h.Address.Zip,
		h.WorkbondReceived, h.WorkbondStatus,
	)
	if err != nil {
		return fmt.Errorf("update household: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update household rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM households WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete household rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error) {
	query := `SELECT ` + householdColumns + ` FROM households WHERE id = $1`
	h, err := scanHousehold(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find household by id: %w", err)
	}
	return h, nil
}

func (s *PostgresStore) FindByGuardianEmail(ctx context.Context, seasonID, email string) ([]*models.Household, error) {
	query := `
		SELECT ` + householdColumns + `
		FROM households
		WHERE season_id = $1
		  AND (LOWER(guardian1_email) = LOWER($2) OR LOWER(guardian2_email) = LOWER($2))
		ORDER BY created_at
	`
	return s.queryHouseholds(ctx, query, seasonID, email)
}

func (s *PostgresStore) FindByPhoneSuffix(ctx context.Context, seasonID, suffix string) ([]*models.Household, error) {
	query := `
		SELECT ` + householdColumns + `
		FROM households
		WHERE season_id = $1
		  AND (guardian1_phone LIKE '%' || $2 OR guardian2_phone LIKE '%' || $2)
		ORDER BY created_at
	`
	return s.queryHouseholds(ctx, query, seasonID, suffix)
}

func (s *PostgresStore) ListBySeason(ctx context.Context, seasonID string) ([]*models.Household, error) {
	query := `SELECT ` + householdColumns + ` FROM households WHERE season_id = $1 ORDER BY created_at`
	return s.queryHouseholds(ctx, query, seasonID)
}

func (s *PostgresStore) queryHouseholds(ctx context.Context, query string, args ...any) ([]*models.Household, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query households: %w", err)
	}
	defer rows.Close()

	var out []*models.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate households: %w", err)
	}
	return out, nil
}

type row interface {
	Scan(dest ...any) error
}

func scanHousehold(r row) (*models.Household, error) {
	var h models.Household
	err := r.Scan(
		&h.ID, &h.Code, &h.SeasonID,
		&h.Guardian1.Name, &h.Guardian1.Email, &h.Guardian1.Phone,
		&h.Guardian2.Name, &h.Guardian2.Email, &h.Guardian2.Phone,
		&h.Address.Street, &h.Address.City, &h.Address.Zip,
		&h.WorkbondReceived, &h.WorkbondStatus,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
