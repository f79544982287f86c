package person

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leaguedesk/internal/roster/models"
	"leaguedesk/pkg/platform/sentinel"
)

// InMemoryStore keeps persons in insertion order; copies in and out.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*models.Person
	order []uuid.UUID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byID: make(map[uuid.UUID]*models.Person)}
}

func (s *InMemoryStore) Create(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[p.ID]; exists {
		return sentinel.ErrConflict
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	clone := *p
	s.byID[p.ID] = &clone
	s.order = append(s.order, p.ID)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[p.ID]; !exists {
		return sentinel.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	clone := *p
	s.byID[p.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *InMemoryStore) FindByName(_ context.Context, seasonID, givenName, familyName string) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Person
	for _, id := range s.order {
		p := s.byID[id]
		if p.SeasonID != seasonID {
			continue
		}
		if strings.EqualFold(p.GivenName, givenName) && strings.EqualFold(p.FamilyName, familyName) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemoryStore) FindByRegistrationID(_ context.Context, seasonID, registrationID string) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Person
	for _, id := range s.order {
		p := s.byID[id]
		if p.SeasonID == seasonID && p.RegistrationID == registrationID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}
