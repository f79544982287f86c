package unmatched

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/ports"
	"leaguedesk/pkg/platform/sentinel"
)

// InMemoryStore keeps the unmatched-record queue in memory. Link writes
// through to the shift store under the queue mutex, which gives the memory
// implementation the same already-matched gate the postgres transaction
// provides.
type InMemoryStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*models.UnmatchedRecord
	order  []uuid.UUID
	shifts ports.ShiftStore
}

func NewInMemory(shifts ports.ShiftStore) *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[uuid.UUID]*models.UnmatchedRecord),
		shifts: shifts,
	}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.UnmatchedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[record.ID]; exists {
		return sentinel.ErrConflict
	}
	record.CreatedAt = time.Now().UTC()
	clone := *record
	s.byID[record.ID] = &clone
	s.order = append(s.order, record.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.UnmatchedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *InMemoryStore) ListUnmatched(_ context.Context, seasonID string) ([]*models.UnmatchedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.UnmatchedRecord
	for _, id := range s.order {
		record := s.byID[id]
		if record.SeasonID == seasonID && !record.Matched {
			clone := *record
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Link(ctx context.Context, recordID, householdID uuid.UUID, shift *models.WorkbondShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.byID[recordID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if record.Matched {
		return sentinel.ErrAlreadyMatched
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return err
	}
	now := time.Now().UTC()
	record.Matched = true
	record.HouseholdID = &householdID
	record.MatchedAt = &now
	return nil
}
