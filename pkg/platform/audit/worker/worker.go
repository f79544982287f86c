package worker

import (
	"context"
	"log/slog"

	"leaguedesk/pkg/platform/audit"
	"leaguedesk/pkg/platform/sentinel"
)

// Worker consumes audit events from a channel and persists them. Import
// auditing is an operations trail, so persistence failures are logged and
// skipped rather than stopping the worker.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func New(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.WarnContext(ctx, "failed to persist audit event",
					"action", event.Action, "error", err)
			}
		}
	}
}

// Inbox builds the channel pair used to wire emitters to a Worker.
func Inbox(size int) (chan<- audit.Event, <-chan audit.Event) {
	ch := make(chan audit.Event, size)
	return ch, ch
}

// ChannelPublisher emits into a worker inbox without blocking row
// processing. A full inbox drops the event; the trail is best-effort.
type ChannelPublisher struct {
	inbox chan<- audit.Event
}

func NewChannelPublisher(inbox chan<- audit.Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(_ context.Context, event audit.Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		return sentinel.ErrUnavailable
	}
}
