package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
)

// ReportingServiceImpl implements ports.ReportingService over the storage
// collaborator.
type ReportingServiceImpl struct {
	txRepo ports.TransactionRepository
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(txRepo ports.TransactionRepository) *ReportingServiceImpl {
	return &ReportingServiceImpl{txRepo: txRepo}
}

// Stats aggregates fraud counters over the full transaction record.
func (s *ReportingServiceImpl) Stats(ctx context.Context) (*ports.FraudStats, error) {
	txns, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	stats := &ports.FraudStats{
		TotalTransactions: int64(len(txns)),
		LastUpdated:       time.Now().UTC().Format(time.RFC3339),
	}
	for i := range txns {
		if txns[i].Anomalous {
			stats.FraudulentTransactions++
			stats.AmountSaved += txns[i].Amount
		}
	}
	stats.SafeTransactions = stats.TotalTransactions - stats.FraudulentTransactions
	if stats.TotalTransactions > 0 {
		rate := float64(stats.FraudulentTransactions) / float64(stats.TotalTransactions) * 100
		stats.FraudRatePercentage = math.Round(rate*100) / 100
	}
	return stats, nil
}

// ListTransactions returns the full record in capture order.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// Search filters transactions by substring criteria, newest first, capped.
func (s *ReportingServiceImpl) Search(ctx context.Context, params ports.TransactionSearchParams) ([]domain.Transaction, error) {
	if params.Limit <= 0 {
		params.Limit = ports.DefaultSearchLimit
	}
	txns, err := s.txRepo.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	return txns, nil
}
