package service

import (
	"context"
	"time"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"

	"github.com/rs/zerolog"
)

// Static risk weights and thresholds for the advisory scoring path.
const (
	weightHighAmount     = 30
	weightModerateAmount = 15
	weightOddHours       = 20
	weightRiskLocation   = 25
	weightBlacklisted    = 50

	highAmountThreshold     = 100000
	moderateAmountThreshold = 50000

	scoreReviewFloor  = 25
	scoreDeclineFloor = 50
)

// RiskServiceImpl implements ports.RiskService. It is stateless: nothing it
// reads is mutated and its output never feeds back into the decision engine.
type RiskServiceImpl struct {
	blRepo        ports.BlacklistRepository
	riskLocations map[string]struct{}
	log           zerolog.Logger
}

// NewRiskService creates a new RiskServiceImpl.
func NewRiskService(blRepo ports.BlacklistRepository, highRiskLocations []string, log zerolog.Logger) *RiskServiceImpl {
	locs := make(map[string]struct{}, len(highRiskLocations))
	for _, l := range highRiskLocations {
		locs[l] = struct{}{}
	}
	return &RiskServiceImpl{blRepo: blRepo, riskLocations: locs, log: log}
}

// Analyze computes an advisory risk assessment from static weights.
func (s *RiskServiceImpl) Analyze(ctx context.Context, req ports.AnalyzeRequest) (*domain.RiskAssessment, error) {
	score := 0
	var factors []string

	switch {
	case req.Amount > highAmountThreshold:
		score += weightHighAmount
		factors = append(factors, "High transaction amount (>₹1L)")
	case req.Amount > moderateAmountThreshold:
		score += weightModerateAmount
		factors = append(factors, "Moderate transaction amount (>₹50K)")
	}

	at := time.Now()
	if req.TransactionTime != nil {
		at = *req.TransactionTime
	}
	if oddHours(at) {
		score += weightOddHours
		factors = append(factors, "Transaction during odd hours (12 AM - 4 AM)")
	}

	if _, risky := s.riskLocations[req.Location]; risky {
		score += weightRiskLocation
		factors = append(factors, "High-risk location")
	}

	if req.RecipientAccount != "" {
		listed, err := s.blRepo.IsListed(ctx, domain.EntryTypeAccount, req.RecipientAccount)
		if err != nil {
			s.log.Warn().Err(err).Msg("blacklist check failed during analysis, treating as not listed")
		} else if listed {
			score += weightBlacklisted
			factors = append(factors, "Blacklisted recipient account")
		}
	}

	level, recommendation := classify(score)

	return &domain.RiskAssessment{
		Score:          score,
		Level:          level,
		Recommendation: recommendation,
		Factors:        factors,
		Confidence:     confidence(score),
		AnalyzedAt:     time.Now().UTC(),
	}, nil
}

// classify maps a score to its risk level and recommendation.
func classify(score int) (level, recommendation string) {
	switch {
	case score >= scoreDeclineFloor:
		return domain.RiskHigh, domain.ActionDecline
	case score >= scoreReviewFloor:
		return domain.RiskMedium, domain.ActionReview
	default:
		return domain.RiskLow, domain.ActionApprove
	}
}

// confidence decreases linearly with score, clamped to [60, 95].
func confidence(score int) float64 {
	c := 100 - float64(score)*0.8
	if c < 60 {
		return 60
	}
	if c > 95 {
		return 95
	}
	return c
}
