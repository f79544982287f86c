package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event is emitted from reconciliation logic to capture key actions. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	SeasonID  string    `json:"season_id,omitempty"`
	BatchID   string    `json:"batch_id,omitempty"`
	EntityID  string    `json:"entity_id,omitempty"`
	// Fields lists the changed field keys on update events, so the trail
	// records what moved without duplicating values.
	Fields    []string `json:"fields,omitempty"`
	Detail    string   `json:"detail,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// Action names a reconciliation outcome worth auditing.
type Action string

const (
	ActionHouseholdCreated   Action = "household_created"
	ActionHouseholdUpdated   Action = "household_updated"
	ActionPersonCreated      Action = "person_created"
	ActionPersonUpdated      Action = "person_updated"
	ActionPersonLinkReplaced Action = "person_link_replaced"
	ActionUnmatchedQueued    Action = "unmatched_queued"
	ActionUnmatchedLinked    Action = "unmatched_linked"
	ActionShiftCredited      Action = "shift_credited"
	ActionBatchCompleted     Action = "batch_completed"
)

// Store persists the audit trail.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByBatch(ctx context.Context, batchID string) ([]Event, error)
}

// Publisher is the fan-out point domain code emits through.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Log emits an event through the publisher and mirrors it to the logger.
// Import auditing is fail-open: a sink failure is logged, never propagated
// into row processing.
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if logger != nil {
		logger.InfoContext(ctx, string(event.Action),
			"log_type", "audit",
			"batch_id", event.BatchID,
			"entity_id", event.EntityID,
			"detail", event.Detail,
		)
	}
	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action, "error", err)
	}
}
