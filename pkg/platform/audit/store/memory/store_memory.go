package memory

import (
	"context"
	"sync"

	"leaguedesk/pkg/platform/audit"
)

// Store keeps the audit trail in memory, grouped by batch. Used by tests
// and by deployments without a postgres audit table.
type Store struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func New() *Store {
	return &Store{events: make(map[string][]audit.Event)}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.BatchID] = append(s.events[event.BatchID], event)
	return nil
}

func (s *Store) ListByBatch(_ context.Context, batchID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[batchID]...), nil
}
