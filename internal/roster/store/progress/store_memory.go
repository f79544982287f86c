package progress

import (
	"context"
	"sync"
	"time"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// InMemoryStore keeps batch progress for single-process deployments and
// tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	byBatch map[string]*models.BatchProgress
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byBatch: make(map[string]*models.BatchProgress)}
}

func (s *InMemoryStore) Save(_ context.Context, p *models.BatchProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	clone := *p
	s.byBatch[p.BatchID] = &clone
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, batchID string) (*models.BatchProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byBatch[batchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}
