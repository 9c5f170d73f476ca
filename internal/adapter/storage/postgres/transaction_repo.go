package postgres

import (
	"context"
	"fmt"
	"strings"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const txColumns = `id, transaction_id, amount, currency, location, card_type,
	sender_account, recipient_account, client_ip, ts, anomalous, fraud_reasons, phone`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append inserts an evaluated transaction. The seq column preserves capture
// order independently of the wall-clock timestamp.
func (r *TransactionRepo) Append(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, transaction_id, amount, currency, location, card_type,
		sender_account, recipient_account, client_ip, ts, anomalous, fraud_reasons, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.TransactionID, t.Amount, t.Currency, t.Location, t.CardType,
		t.SenderAccount, t.RecipientAccount, t.ClientIP, t.Timestamp,
		t.Anomalous, t.FraudReasons, t.Phone,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByCardType fetches the full record for one card type in capture order.
func (r *TransactionRepo) ListByCardType(ctx context.Context, cardType string) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE card_type = $1 ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, cardType)
	if err != nil {
		return nil, fmt.Errorf("list transactions by card type: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// List fetches the full record in capture order.
func (r *TransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Search filters by case-insensitive substring match, newest first.
func (r *TransactionRepo) Search(ctx context.Context, params ports.TransactionSearchParams) ([]domain.Transaction, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.TransactionID != "" {
		conditions = append(conditions, fmt.Sprintf("transaction_id ILIKE $%d", argIdx))
		args = append(args, "%"+params.TransactionID+"%")
		argIdx++
	}
	if params.AccountNumber != "" {
		conditions = append(conditions, fmt.Sprintf("(sender_account ILIKE $%d OR recipient_account ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.AccountNumber+"%")
		argIdx++
	}
	if params.CardType != "" {
		conditions = append(conditions, fmt.Sprintf("card_type ILIKE $%d", argIdx))
		args = append(args, "%"+params.CardType+"%")
		argIdx++
	}

	limit := params.Limit
	if limit <= 0 {
		limit = ports.DefaultSearchLimit
	}

	query := `SELECT ` + txColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions reads all rows into Transactions.
func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.ID, &t.TransactionID, &t.Amount, &t.Currency, &t.Location, &t.CardType,
			&t.SenderAccount, &t.RecipientAccount, &t.ClientIP, &t.Timestamp,
			&t.Anomalous, &t.FraudReasons, &t.Phone,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
