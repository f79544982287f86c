package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"leaguedesk/pkg/platform/audit"
)

// Store persists audit events in PostgreSQL. Pure I/O; event construction
// and categorization live with the emitters.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO import_audit_events (occurred_at, action, season_id, batch_id, entity_id, changed_fields, detail, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.Timestamp,
		string(event.Action),
		event.SeasonID,
		event.BatchID,
		event.EntityID,
		strings.Join(event.Fields, ","),
		event.Detail,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByBatch(ctx context.Context, batchID string) ([]audit.Event, error) {
	query := `
		SELECT occurred_at, action, season_id, batch_id, entity_id, changed_fields, detail, request_id
		FROM import_audit_events
		WHERE batch_id = $1
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var event audit.Event
		var action, fields string
		if err := rows.Scan(&event.Timestamp, &action, &event.SeasonID, &event.BatchID, &event.EntityID, &fields, &event.Detail, &event.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = audit.Action(action)
		if fields != "" {
			event.Fields = strings.Split(fields, ",")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
