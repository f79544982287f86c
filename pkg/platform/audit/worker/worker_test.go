package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaguedesk/pkg/platform/audit"
	"leaguedesk/pkg/platform/audit/store/memory"
	"leaguedesk/pkg/platform/audit/worker"
	"leaguedesk/pkg/platform/sentinel"
)

func TestWorkerDrainsInboxIntoStore(t *testing.T) {
	store := memory.New()
	sink, inbox := worker.Inbox(8)
	w := worker.New(store, inbox, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	publisher := worker.NewChannelPublisher(sink)
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionHouseholdCreated,
		BatchID:   "batch-1",
		EntityID:  "h-1",
	}
	require.NoError(t, publisher.Emit(ctx, event))

	require.Eventually(t, func() bool {
		events, err := store.ListByBatch(ctx, "batch-1")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestChannelPublisherDropsWhenInboxFull(t *testing.T) {
	sink, _ := worker.Inbox(1)
	publisher := worker.NewChannelPublisher(sink)
	ctx := context.Background()

	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.ActionPersonCreated}))

	// No worker is draining; the second emit finds the inbox full.
	err := publisher.Emit(ctx, audit.Event{Action: audit.ActionPersonCreated})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
