package memory

import (
	"context"
	"sync"

	"trustlens/internal/core/domain"
)

// BlacklistStore implements ports.BlacklistRepository in memory.
type BlacklistStore struct {
	mu      sync.RWMutex
	entries map[string]domain.BlacklistEntry
}

// NewBlacklistStore creates a BlacklistStore pre-seeded with the given
// account numbers, matching the durable backend's seed data.
func NewBlacklistStore(seedAccounts []string) *BlacklistStore {
	s := &BlacklistStore{entries: make(map[string]domain.BlacklistEntry)}
	for _, acct := range seedAccounts {
		e := domain.BlacklistEntry{
			Type:    domain.EntryTypeAccount,
			Value:   acct,
			Reasons: []string{"Seed entry"},
			AddedBy: "seed",
		}
		s.entries[e.Key()] = e
	}
	return s
}

// IsListed reports whether the identifier is blacklisted.
func (s *BlacklistStore) IsListed(_ context.Context, entryType domain.EntryType, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[string(entryType)+":"+value]
	return ok, nil
}

// Insert records a blacklist entry; re-inserting an existing key is a no-op.
func (s *BlacklistStore) Insert(_ context.Context, e *domain.BlacklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := e.Key()
	if _, ok := s.entries[key]; ok {
		return nil
	}
	s.entries[key] = *e
	return nil
}
