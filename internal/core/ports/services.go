package ports

import (
	"context"
	"time"

	"trustlens/internal/core/domain"

	"github.com/google/uuid"
)

// --- Decision engine ---

// FraudService is the decision engine: it converts a transaction plus
// historical context into a verdict and updates shared state accordingly.
type FraudService interface {
	Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResult, error)
	// AddBlacklistEntry records a manually flagged identifier.
	AddBlacklistEntry(ctx context.Context, entryType domain.EntryType, value, reason, addedBy string) error
	// Recorded returns the in-process transaction history in capture order.
	Recorded() []domain.Transaction
	// LastRecorded returns the most recently evaluated transaction, or nil.
	LastRecorded() *domain.Transaction
}

// EvaluateRequest holds validated input for fraud evaluation.
type EvaluateRequest struct {
	Amount           float64
	Currency         string
	Location         string
	CardType         string
	SenderAccount    string
	RecipientAccount string
	TransactionID    string
	Phone            string
	ClientIP         string
}

// EvaluateResult is the decision engine's verdict.
type EvaluateResult struct {
	Anomalous   bool
	Reasons     []string
	Transaction *domain.Transaction
}

// --- Advisory risk scoring ---

// RiskService is the stateless advisory scoring path. It mutates no shared
// state and does not feed back into the decision engine.
type RiskService interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*domain.RiskAssessment, error)
}

// AnalyzeRequest holds input for advisory risk scoring.
type AnalyzeRequest struct {
	Amount           float64
	Location         string
	CardType         string
	RecipientAccount string
	TransactionTime  *time.Time // nil = now
}

// --- Reporting ---

// ReportingService exposes aggregate fraud statistics and search.
type ReportingService interface {
	Stats(ctx context.Context) (*FraudStats, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	Search(ctx context.Context, params TransactionSearchParams) ([]domain.Transaction, error)
}

// FraudStats holds aggregate counters for the stats endpoint.
type FraudStats struct {
	TotalTransactions      int64   `json:"total_transactions"`
	FraudulentTransactions int64   `json:"fraudulent_transactions"`
	SafeTransactions       int64   `json:"safe_transactions"`
	FraudRatePercentage    float64 `json:"fraud_rate_percentage"`
	AmountSaved            float64 `json:"amount_saved"`
	LastUpdated            string  `json:"last_updated"`
}

// --- Analyst authentication ---

// AuthService defines analyst account registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Analyst, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for analyst registration.
type RegisterRequest struct {
	Username string
	Password string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(analystID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AnalystID uuid.UUID
	Username  string
}

// --- Notification collaborator ---

// NotifyService delivers SMS notifications. Delivery outcome never affects
// a fraud verdict.
type NotifyService interface {
	SendSMS(ctx context.Context, phone, message string) (*SMSResult, error)
}

// SMSResult reports the outcome of an SMS delivery attempt.
type SMSResult struct {
	SID       string `json:"sid"`
	Simulated bool   `json:"simulated,omitempty"`
}
