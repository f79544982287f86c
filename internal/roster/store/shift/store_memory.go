package shift

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// InMemoryStore keeps credited workbond shifts in memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	shifts []*models.WorkbondShift
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, shift *models.WorkbondShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.shifts {
		if existing.ID == shift.ID {
			return sentinel.ErrConflict
		}
	}
	shift.CreatedAt = time.Now().UTC()
	clone := *shift
	s.shifts = append(s.shifts, &clone)
	return nil
}

func (s *InMemoryStore) ListByHousehold(_ context.Context, seasonID string, householdID uuid.UUID) ([]*models.WorkbondShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.WorkbondShift
	for _, shift := range s.shifts {
		if shift.SeasonID == seasonID && shift.HouseholdID == householdID {
			clone := *shift
			out = append(out, &clone)
		}
	}
	return out, nil
}
