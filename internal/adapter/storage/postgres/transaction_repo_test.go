package postgres

import (
	"context"
	"testing"
	"time"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredTransaction() *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Transaction{
		ID:               uuid.New(),
		TransactionID:    "TXN-1001",
		Amount:           50000,
		Currency:         "INR",
		Location:         "Mumbai",
		CardType:         "Visa",
		SenderAccount:    "1234509876",
		RecipientAccount: "9876543210",
		ClientIP:         "192.0.2.50",
		Timestamp:        now,
		Anomalous:        true,
		FraudReasons:     []string{"Blacklisted Recipient: 9876543210"},
		Phone:            "+916374672882",
	}
}

func txTestColumns() []string {
	return []string{"id", "transaction_id", "amount", "currency", "location", "card_type",
		"sender_account", "recipient_account", "client_ip", "ts", "anomalous", "fraud_reasons", "phone"}
}

func txTestRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(txTestColumns()).AddRow(
		t.ID, t.TransactionID, t.Amount, t.Currency, t.Location, t.CardType,
		t.SenderAccount, t.RecipientAccount, t.ClientIP, t.Timestamp,
		t.Anomalous, t.FraudReasons, t.Phone,
	)
}

func TestTransactionRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newStoredTransaction()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.TransactionID, txn.Amount, txn.Currency, txn.Location, txn.CardType,
			txn.SenderAccount, txn.RecipientAccount, txn.ClientIP, txn.Timestamp,
			txn.Anomalous, txn.FraudReasons, txn.Phone).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Append(context.Background(), txn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByCardType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newStoredTransaction()

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE card_type").
		WithArgs("Visa").
		WillReturnRows(txTestRow(txn))

	got, err := repo.ListByCardType(context.Background(), "Visa")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, txn.TransactionID, got[0].TransactionID)
	assert.Equal(t, txn.FraudReasons, got[0].FraudReasons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM transactions ORDER BY seq").
		WillReturnRows(pgxmock.NewRows(txTestColumns()))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Search(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newStoredTransaction()

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE transaction_id ILIKE (.+) ORDER BY seq DESC LIMIT").
		WithArgs("%TXN-10%", 50).
		WillReturnRows(txTestRow(txn))

	got, err := repo.Search(context.Background(), ports.TransactionSearchParams{TransactionID: "TXN-10"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Search_AllFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE").
		WithArgs("%TXN%", "%9876%", "%Visa%", 10).
		WillReturnRows(pgxmock.NewRows(txTestColumns()))

	_, err = repo.Search(context.Background(), ports.TransactionSearchParams{
		TransactionID: "TXN",
		AccountNumber: "9876",
		CardType:      "Visa",
		Limit:         10,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
