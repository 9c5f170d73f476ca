package memory

import (
	"context"
	"sync"

	"trustlens/internal/core/domain"

	"github.com/google/uuid"
)

// AnalystStore implements ports.AnalystRepository in memory.
type AnalystStore struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]domain.Analyst
	byUsername map[string]uuid.UUID
}

// NewAnalystStore creates an empty AnalystStore.
func NewAnalystStore() *AnalystStore {
	return &AnalystStore{
		byID:       make(map[uuid.UUID]domain.Analyst),
		byUsername: make(map[string]uuid.UUID),
	}
}

// Create inserts a new analyst account.
func (s *AnalystStore) Create(_ context.Context, a *domain.Analyst) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[a.ID] = *a
	s.byUsername[a.Username] = a.ID
	return nil
}

// GetByID fetches an analyst by UUID. Returns (nil, nil) when not found.
func (s *AnalystStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Analyst, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// GetByUsername fetches an analyst by username. Returns (nil, nil) when not found.
func (s *AnalystStore) GetByUsername(_ context.Context, username string) (*domain.Analyst, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, nil
	}
	a := s.byID[id]
	return &a, nil
}
