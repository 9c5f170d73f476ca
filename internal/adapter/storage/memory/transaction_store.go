// Package memory provides process-local implementations of the storage ports.
// It backs the service when PostgreSQL is unreachable at startup; everything
// is lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
)

// TransactionStore implements ports.TransactionRepository in memory.
type TransactionStore struct {
	mu   sync.RWMutex
	txns []domain.Transaction
}

// NewTransactionStore creates an empty TransactionStore.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// Append records an evaluated transaction in capture order.
func (s *TransactionStore) Append(_ context.Context, t *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, *t)
	return nil
}

// ListByCardType returns the record for one card type in capture order.
func (s *TransactionStore) ListByCardType(_ context.Context, cardType string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Transaction
	for i := range s.txns {
		if s.txns[i].CardType == cardType {
			out = append(out, s.txns[i])
		}
	}
	return out, nil
}

// List returns the full record in capture order.
func (s *TransactionStore) List(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.txns))
	copy(out, s.txns)
	return out, nil
}

// Search filters by case-insensitive substring match, newest first, capped.
func (s *TransactionStore) Search(_ context.Context, params ports.TransactionSearchParams) ([]domain.Transaction, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = ports.DefaultSearchLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Transaction
	for i := len(s.txns) - 1; i >= 0 && len(out) < limit; i-- {
		if matches(&s.txns[i], params) {
			out = append(out, s.txns[i])
		}
	}
	return out, nil
}

func matches(t *domain.Transaction, params ports.TransactionSearchParams) bool {
	if params.TransactionID != "" && !containsFold(t.TransactionID, params.TransactionID) {
		return false
	}
	if params.AccountNumber != "" &&
		!containsFold(t.SenderAccount, params.AccountNumber) &&
		!containsFold(t.RecipientAccount, params.AccountNumber) {
		return false
	}
	if params.CardType != "" && !containsFold(t.CardType, params.CardType) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
