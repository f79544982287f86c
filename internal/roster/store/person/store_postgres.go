package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// PostgresStore persists season-scoped person records.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const personColumns = `
	id, season_id, given_name, family_name, birth_date, registration_id,
	role, program, household_id, active, payment_ok, created_at, updated_at
`

func (s *PostgresStore) Create(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO persons (` + personColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.SeasonID, p.GivenName, p.FamilyName, p.BirthDate, p.RegistrationID,
		string(p.Role), p.Program, p.HouseholdID, p.Active, p.PaymentOK,
	)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Person) error {
	query := `
		UPDATE persons SET
			given_name = $2, family_name = $3, birth_date = $4, registration_id = $5,
			role = $6, program = $7, household_id = $8, active = $9, payment_ok = $10,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		p.ID, p.GivenName, p.FamilyName, p.BirthDate, p.RegistrationID,
		string(p.Role), p.Program, p.HouseholdID, p.Active, p.PaymentOK,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update person rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`
	p, err := scanPerson(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, seasonID, givenName, familyName string) ([]*models.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons
		WHERE season_id = $1
		  AND LOWER(given_name) = LOWER($2)
		  AND LOWER(family_name) = LOWER($3)
		ORDER BY created_at
	`
	return s.queryPersons(ctx, query, seasonID, givenName, familyName)
}

func (s *PostgresStore) FindByRegistrationID(ctx context.Context, seasonID, registrationID string) ([]*models.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons
		WHERE season_id = $1 AND registration_id = $2
		ORDER BY created_at
	`
	return s.queryPersons(ctx, query, seasonID, registrationID)
}

func (s *PostgresStore) queryPersons(ctx context.Context, query string, args ...any) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return out, nil
}

type row interface {
	Scan(dest ...any) error
}

func scanPerson(r row) (*models.Person, error) {
	var p models.Person
	var role string
	var householdID uuid.NullUUID
	err := r.Scan(
		&p.ID, &p.SeasonID, &p.GivenName, &p.FamilyName, &p.BirthDate, &p.RegistrationID,
		&role, &p.Program, &householdID, &p.Active, &p.PaymentOK, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Role = models.Role(role)
	if householdID.Valid {
		id := householdID.UUID
		p.HouseholdID = &id
	}
	return &p, nil
}
