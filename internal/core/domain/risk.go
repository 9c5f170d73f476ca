package domain

import "time"

// Risk levels for the advisory scoring path.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// Recommendations mapped from risk levels.
const (
	ActionApprove = "APPROVE"
	ActionReview  = "REVIEW"
	ActionDecline = "DECLINE"
)

// RiskAssessment is the result of the stateless advisory scoring path.
// It never feeds back into the decision engine.
type RiskAssessment struct {
	Score          int       `json:"risk_score"`
	Level          string    `json:"risk_level"`
	Recommendation string    `json:"recommendation"`
	Factors        []string  `json:"risk_factors"`
	Confidence     float64   `json:"confidence"`
	AnalyzedAt     time.Time `json:"analysis_timestamp"`
}
