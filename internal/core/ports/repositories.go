package ports

import (
	"context"

	"trustlens/internal/core/domain"

	"github.com/google/uuid"
)

// TransactionRepository is the storage collaborator for transaction records.
// Implementations must preserve append order per card type; the decision
// engine serializes read-modify-write sequences per card type on top of it.
type TransactionRepository interface {
	Append(ctx context.Context, tx *domain.Transaction) error
	// ListByCardType returns transactions for a card type in capture order,
	// oldest first.
	ListByCardType(ctx context.Context, cardType string) ([]domain.Transaction, error)
	// List returns every recorded transaction in capture order.
	List(ctx context.Context) ([]domain.Transaction, error)
	// Search filters by case-insensitive substring match, newest first.
	Search(ctx context.Context, params TransactionSearchParams) ([]domain.Transaction, error)
}

// TransactionSearchParams holds search criteria. Empty fields match everything.
type TransactionSearchParams struct {
	TransactionID string
	AccountNumber string
	CardType      string
	Limit         int // defaults to 50 when <= 0
}

// DefaultSearchLimit caps search result sets.
const DefaultSearchLimit = 50

// BlacklistRepository is the storage collaborator for flagged identifiers.
type BlacklistRepository interface {
	IsListed(ctx context.Context, entryType domain.EntryType, value string) (bool, error)
	// Insert adds an entry unless one already exists for (type, value).
	// Re-inserting an existing identifier is a no-op, never an error.
	Insert(ctx context.Context, entry *domain.BlacklistEntry) error
}

// AnalystRepository defines persistence operations for analyst accounts.
type AnalystRepository interface {
	Create(ctx context.Context, analyst *domain.Analyst) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analyst, error)
	GetByUsername(ctx context.Context, username string) (*domain.Analyst, error)
}
