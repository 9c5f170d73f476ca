package postgres

import (
	"context"
	"fmt"

	"trustlens/internal/core/domain"
)

// BlacklistRepo implements ports.BlacklistRepository.
type BlacklistRepo struct {
	pool Pool
}

// NewBlacklistRepo creates a new BlacklistRepo.
func NewBlacklistRepo(pool Pool) *BlacklistRepo {
	return &BlacklistRepo{pool: pool}
}

// IsListed reports whether the identifier is blacklisted.
func (r *BlacklistRepo) IsListed(ctx context.Context, entryType domain.EntryType, value string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM blacklist WHERE type = $1 AND value = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, entryType, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return exists, nil
}

// Insert records a blacklist entry. Re-inserting an existing (type, value)
// pair is a no-op so the engine can flag repeat offenders without churn.
func (r *BlacklistRepo) Insert(ctx context.Context, e *domain.BlacklistEntry) error {
	query := `INSERT INTO blacklist (type, value, reasons, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (type, value) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, e.Type, e.Value, e.Reasons, e.AddedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert blacklist entry: %w", err)
	}
	return nil
}
