package dto

// SubmitTransactionRequest is the request body for fraud evaluation.
// Amount is intentionally unconstrained: negative and zero amounts flow into
// the behavioral detector like any other value.
type SubmitTransactionRequest struct {
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency" binding:"omitempty,len=3"`
	Location         string  `json:"location"`
	CardType         string  `json:"card_type" binding:"required,max=50"`
	SenderAccount    string  `json:"sender_account_number"`
	RecipientAccount string  `json:"recipient_account_number" binding:"required,max=50"`
	TransactionID    string  `json:"transaction_id" binding:"required,max=100"`
	Phone            string  `json:"phone" binding:"omitempty,max=20"`
}

// SubmitTransactionResponse is the verdict returned for a submitted transaction.
type SubmitTransactionResponse struct {
	TransactionID string   `json:"transaction_id"`
	Anomalous     bool     `json:"anomalous"`
	Reasons       []string `json:"reasons"`
}

// AnalyzeRequest is the request body for advisory risk scoring.
type AnalyzeRequest struct {
	Amount           float64 `json:"amount"`
	Location         string  `json:"location"`
	CardType         string  `json:"card_type"`
	RecipientAccount string  `json:"recipient_account_number"`
	TransactionTime  string  `json:"transaction_time" binding:"omitempty"` // RFC3339; empty = now
}

// BlacklistRequest is the request body for manual blacklist insertion.
type BlacklistRequest struct {
	Type   string `json:"type" binding:"required,oneof=account ip"`
	Value  string `json:"value" binding:"required,max=100"`
	Reason string `json:"reason" binding:"omitempty,max=200"`
}

// SMSRequest is the request body for a direct SMS send.
type SMSRequest struct {
	Phone   string `json:"phone" binding:"required,max=20"`
	Message string `json:"message" binding:"required,max=1600"`
}

// RegisterRequest is the request body for analyst registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for analyst login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	AnalystID string `json:"analyst_id"`
	Username  string `json:"username"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}
