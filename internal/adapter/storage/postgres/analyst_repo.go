package postgres

import (
	"context"
	"errors"
	"fmt"

	"trustlens/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AnalystRepo implements ports.AnalystRepository.
type AnalystRepo struct {
	pool Pool
}

// NewAnalystRepo creates a new AnalystRepo.
func NewAnalystRepo(pool Pool) *AnalystRepo {
	return &AnalystRepo{pool: pool}
}

// Create inserts a new analyst account.
func (r *AnalystRepo) Create(ctx context.Context, a *domain.Analyst) error {
	query := `INSERT INTO analysts (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, a.ID, a.Username, a.PasswordHash, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert analyst: %w", err)
	}
	return nil
}

// GetByID fetches an analyst by UUID. Returns (nil, nil) when not found.
func (r *AnalystRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analyst, error) {
	query := `SELECT id, username, password_hash, created_at FROM analysts WHERE id = $1`
	return r.scanAnalyst(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches an analyst by username. Returns (nil, nil) when not found.
func (r *AnalystRepo) GetByUsername(ctx context.Context, username string) (*domain.Analyst, error) {
	query := `SELECT id, username, password_hash, created_at FROM analysts WHERE username = $1`
	return r.scanAnalyst(r.pool.QueryRow(ctx, query, username))
}

// scanAnalyst is a helper to scan a single row into an Analyst.
func (r *AnalystRepo) scanAnalyst(row pgx.Row) (*domain.Analyst, error) {
	var a domain.Analyst
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan analyst: %w", err)
	}
	return &a, nil
}
