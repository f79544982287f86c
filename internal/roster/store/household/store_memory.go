package household

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// InMemoryStore keeps households in insertion order, which stands in for a
// table scan order in tests. Records are copied on the way in and out so
// callers can mutate freely.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*models.Household
	order []uuid.UUID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byID: make(map[uuid.UUID]*models.Household)}
}

func (s *InMemoryStore) Create(_ context.Context, h *models.Household) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[h.ID]; exists {
		return sentinel.ErrConflict
	}
	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now
	clone := *h
	s.byID[h.ID] = &clone
	s.order = append(s.order, h.ID)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, h *models.Household) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[h.ID]; !exists {
		return sentinel.ErrNotFound
	}
	h.UpdatedAt = time.Now().UTC()
	clone := *h
	s.byID[h.ID] = &clone
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[id]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *h
	return &clone, nil
}

func (s *InMemoryStore) FindByGuardianEmail(_ context.Context, seasonID, email string) ([]*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Household
	for _, id := range s.order {
		h := s.byID[id]
		if h.SeasonID != seasonID {
			continue
		}
		if strings.EqualFold(h.Guardian1.Email, email) || strings.EqualFold(h.Guardian2.Email, email) {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemoryStore) FindByPhoneSuffix(_ context.Context, seasonID, suffix string) ([]*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Household
	for _, id := range s.order {
		h := s.byID[id]
		if h.SeasonID != seasonID {
			continue
		}
		if strings.HasSuffix(h.Guardian1.Phone, suffix) || strings.HasSuffix(h.Guardian2.Phone, suffix) {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListBySeason(_ context.Context, seasonID string) ([]*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Household
	for _, id := range s.order {
		h := s.byID[id]
		if h.SeasonID != seasonID {
			continue
		}
		clone := *h
		out = append(out, &clone)
	}
	return out, nil
}
