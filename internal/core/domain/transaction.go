package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the fully decorated record of a submitted transaction.
// It is constructed once by the decision engine at evaluation time and
// never mutated afterward.
type Transaction struct {
	ID               uuid.UUID `json:"id"`
	TransactionID    string    `json:"transaction_id"` // client-supplied reference
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Location         string    `json:"location"`
	CardType         string    `json:"card_type"`
	SenderAccount    string    `json:"sender_account_number"`
	RecipientAccount string    `json:"recipient_account_number"`
	ClientIP         string    `json:"client_ip"`
	Timestamp        time.Time `json:"timestamp"` // server-assigned capture time
	Anomalous        bool      `json:"anomalous"`
	FraudReasons     []string  `json:"fraud_reasons"`
	Phone            string    `json:"phone"`
}

// Flagged reports whether the transaction was judged anomalous.
func (t *Transaction) Flagged() bool {
	return t.Anomalous
}

// Matches reports whether the transaction matches a case-insensitive
// substring search over id, either account number, and card type.
// Empty criteria match everything.
func (t *Transaction) Matches(transactionID, accountNumber, cardType string) bool {
	return containsFold(t.TransactionID, transactionID) &&
		(containsFold(t.SenderAccount, accountNumber) || containsFold(t.RecipientAccount, accountNumber)) &&
		containsFold(t.CardType, cardType)
}
