//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// roster schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// schema mirrors the tables the postgres stores read and write.
const schema = `
CREATE TABLE IF NOT EXISTS households (
	id UUID PRIMARY KEY,
	code TEXT NOT NULL,
	season_id TEXT NOT NULL,
	guardian1_name TEXT NOT NULL DEFAULT '',
	guardian1_email TEXT NOT NULL DEFAULT '',
	guardian1_phone TEXT NOT NULL DEFAULT '',
	guardian2_name TEXT NOT NULL DEFAULT '',
	guardian2_email TEXT NOT NULL DEFAULT '',
	guardian2_phone TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	zip TEXT NOT NULL DEFAULT '',
	workbond_received BOOLEAN NOT NULL DEFAULT FALSE,
	workbond_status TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS households_season_email1 ON households (season_id, LOWER(guardian1_email));
CREATE INDEX IF NOT EXISTS households_season_email2 ON households (season_id, LOWER(guardian2_email));

CREATE TABLE IF NOT EXISTS persons (
	id UUID PRIMARY KEY,
	season_id TEXT NOT NULL,
	given_name TEXT NOT NULL,
	family_name TEXT NOT NULL,
	birth_date TEXT NOT NULL DEFAULT '',
	registration_id TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL,
	program TEXT NOT NULL DEFAULT '',
	household_id UUID REFERENCES households (id) ON DELETE SET NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	payment_ok BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS persons_season_name ON persons (season_id, LOWER(given_name), LOWER(family_name));

CREATE TABLE IF NOT EXISTS unmatched_records (
	id UUID PRIMARY KEY,
	season_id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	shift_date TEXT NOT NULL DEFAULT '',
	hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	matched BOOLEAN NOT NULL DEFAULT FALSE,
	household_id UUID,
	created_at TIMESTAMPTZ NOT NULL,
	matched_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS workbond_shifts (
	id UUID PRIMARY KEY,
	season_id TEXT NOT NULL,
	household_id UUID NOT NULL,
	shift_date TEXT NOT NULL DEFAULT '',
	hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	source_record_id UUID,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS import_audit_events (
	id BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	action TEXT NOT NULL,
	season_id TEXT NOT NULL DEFAULT '',
	batch_id TEXT NOT NULL DEFAULT '',
	entity_id TEXT NOT NULL DEFAULT '',
	changed_fields TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT ''
);
`

// NewPostgresContainer starts a PostgreSQL container and applies the
// schema. The container is cleaned up with the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("leaguedesk_test"),
		tcpostgres.WithUsername("leaguedesk"),
		tcpostgres.WithPassword("leaguedesk"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	return err
}
