package service

import (
	"context"
	"testing"
	"time"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
	"trustlens/internal/core/ports/mocks"
	"trustlens/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fraudTestDeps struct {
	txRepo *mocks.MockTransactionRepository
	blRepo *mocks.MockBlacklistRepository
}

func newTestFraudService(t *testing.T) (*FraudServiceImpl, fraudTestDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := fraudTestDeps{
		txRepo: mocks.NewMockTransactionRepository(ctrl),
		blRepo: mocks.NewMockBlacklistRepository(ctrl),
	}
	svc := NewFraudService(deps.txRepo, deps.blRepo, FraudOptions{
		WindowSize:     5,
		ZThreshold:     2.5,
		MaxDriftKm:     500,
		BlacklistedIPs: []string{"203.0.113.5", "198.51.100.10", "45.33.32.156"},
		DefaultPhone:   "+916374672882",
	}, zerolog.Nop())
	// Pin the clock to mid-afternoon so the odd-hours rule stays quiet
	// unless a test moves it.
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 14, 30, 0, 0, time.Local)
	}
	return svc, deps
}

func cleanRequest() ports.EvaluateRequest {
	return ports.EvaluateRequest{
		Amount:           1200,
		Currency:         "INR",
		Location:         "Chennai",
		CardType:         "Visa",
		SenderAccount:    "1234509876",
		RecipientAccount: "5544332211",
		TransactionID:    "TXN-1001",
		ClientIP:         "192.0.2.50",
	}
}

func historyOf(amounts ...float64) []domain.Transaction {
	txns := make([]domain.Transaction, len(amounts))
	for i, a := range amounts {
		txns[i] = domain.Transaction{Amount: a, CardType: "Visa"}
	}
	return txns
}

func TestEvaluate_Clean(t *testing.T) {
	svc, deps := newTestFraudService(t)
	req := cleanRequest()

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, nil)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, got.Anomalous)
	assert.Empty(t, got.Reasons)
	assert.Equal(t, "TXN-1001", got.Transaction.TransactionID)
	assert.Equal(t, "+916374672882", got.Transaction.Phone) // default applied
	assert.NotEqual(t, "", got.Transaction.ID.String())

	// Clean verdict moves the location baseline and lands in history.
	assert.Equal(t, "Chennai", svc.lastKnownLocation("Visa"))
	require.Len(t, svc.Recorded(), 1)
	assert.Equal(t, "TXN-1001", svc.LastRecorded().TransactionID)
}

func TestEvaluate_Validation(t *testing.T) {
	svc, _ := newTestFraudService(t)

	tests := []struct {
		name   string
		mutate func(*ports.EvaluateRequest)
	}{
		{"missing card type", func(r *ports.EvaluateRequest) { r.CardType = "" }},
		{"missing transaction id", func(r *ports.EvaluateRequest) { r.TransactionID = "" }},
		{"missing recipient", func(r *ports.EvaluateRequest) { r.RecipientAccount = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := cleanRequest()
			tt.mutate(&req)

			_, err := svc.Evaluate(context.Background(), req)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "FRD_001", appErr.Code)
		})
	}
}

func TestEvaluate_BlacklistedIP(t *testing.T) {
	svc, deps := newTestFraudService(t)
	req := cleanRequest()
	req.ClientIP = "203.0.113.5"

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, nil)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	// Anomalous verdict flags the (previously clean) recipient.
	deps.blRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.BlacklistEntry) error {
			assert.Equal(t, domain.EntryTypeAccount, e.Type)
			assert.Equal(t, req.RecipientAccount, e.Value)
			assert.Equal(t, "system", e.AddedBy)
			assert.Equal(t, []string{"Blacklisted IP: 203.0.113.5"}, e.Reasons)
			return nil
		})

	got, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, got.Anomalous)
	assert.Equal(t, []string{"Blacklisted IP: 203.0.113.5"}, got.Reasons)
}

func TestEvaluate_BlacklistedRecipient(t *testing.T) {
	svc, deps := newTestFraudService(t)
	req := cleanRequest()
	req.RecipientAccount = "9876543210"

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, "9876543210").Return(true, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, nil)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	// Already listed: no second insert.

	got, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, got.Anomalous)
	assert.Equal(t, []string{"Blacklisted Recipient: 9876543210"}, got.Reasons)
}

func TestEvaluate_OddHours(t *testing.T) {
	svc, deps := newTestFraudService(t)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 2, 0, 0, 0, time.Local)
	}
	req := cleanRequest()

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, nil)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	deps.blRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, got.Anomalous)
	assert.Equal(t, []string{"Transaction During Odd Hours (12 AM - 4 AM)"}, got.Reasons)
}

func TestEvaluate_BehavioralOutlier(t *testing.T) {
	svc, deps := newTestFraudService(t)
	req := cleanRequest()
	req.Amount = 100

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(historyOf(10, 20, 30, 40, 50), nil)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	deps.blRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, got.Anomalous)
	assert.Equal(t, []string{"Abnormal Amount (Behavioral)"}, got.Reasons)
}

func TestEvaluate_HistoryReadFailureDegradesToEmptyWindow(t *testing.T) {
	svc, deps := newTestFraudService(t)
	req := cleanRequest()
	req.Amount = 10_000_000 // would be an outlier against any real history

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, assert.AnError)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, got.Anomalous)
}

func TestEvaluate_GeoDrift(t *testing.T) {
	svc, deps := newTestFraudService(t)

	// First transaction in Chennai sets the baseline.
	first := cleanRequest()
	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, first.RecipientAccount).Return(false, nil).Times(2)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, nil).Times(2)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	deps.blRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Evaluate(context.Background(), first)
	require.NoError(t, err)
	require.Equal(t, "Chennai", svc.lastKnownLocation("Visa"))

	second := cleanRequest()
	second.TransactionID = "TXN-1002"
	second.Location = "Delhi"

	got, err := svc.Evaluate(context.Background(), second)
	require.NoError(t, err)

	assert.True(t, got.Anomalous)
	assert.Equal(t, []string{"Geo Drift Detected"}, got.Reasons)
	// Anomalous verdict must not move the baseline.
	assert.Equal(t, "Chennai", svc.lastKnownLocation("Visa"))
}

func TestEvaluate_ReasonOrder(t *testing.T) {
	svc, deps := newTestFraudService(t)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 1, 0, 0, 0, time.Local)
	}
	req := cleanRequest()
	req.ClientIP = "198.51.100.10"
	req.RecipientAccount = "1111222233"
	req.Amount = 100

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, "1111222233").Return(true, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(historyOf(10, 20, 30, 40, 50), nil)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Blacklisted IP: 198.51.100.10",
		"Blacklisted Recipient: 1111222233",
		"Transaction During Odd Hours (12 AM - 4 AM)",
		"Abnormal Amount (Behavioral)",
	}, got.Reasons)
}

func TestEvaluate_WriteFailureKeepsInProcessState(t *testing.T) {
	svc, deps := newTestFraudService(t)
	req := cleanRequest()

	deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil)
	deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, nil)
	deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(assert.AnError)

	_, err := svc.Evaluate(context.Background(), req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)

	// Last-write-wins: the in-process record and baseline survive the
	// failed durable write.
	assert.Len(t, svc.Recorded(), 1)
	assert.Equal(t, "Chennai", svc.lastKnownLocation("Visa"))
}

func TestEvaluate_SecondEvaluationSeesFirst(t *testing.T) {
	// Two sequential same-card-type evaluations: the second must observe
	// the first in its history window (here via the repo contract).
	svc, deps := newTestFraudService(t)
	req := cleanRequest()

	gomock.InOrder(
		deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil),
		deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(nil, nil),
		deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil),
		deps.blRepo.EXPECT().IsListed(gomock.Any(), domain.EntryTypeAccount, req.RecipientAccount).Return(false, nil),
		deps.txRepo.EXPECT().ListByCardType(gomock.Any(), "Visa").Return(historyOf(1200), nil),
		deps.txRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	second := req
	second.TransactionID = "TXN-1002"
	_, err = svc.Evaluate(context.Background(), second)
	require.NoError(t, err)

	assert.Len(t, svc.Recorded(), 2)
}

func TestAddBlacklistEntry(t *testing.T) {
	svc, deps := newTestFraudService(t)

	deps.blRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.BlacklistEntry) error {
			assert.Equal(t, domain.EntryTypeIP, e.Type)
			assert.Equal(t, "203.0.113.99", e.Value)
			assert.Equal(t, []string{"Manual addition"}, e.Reasons) // default reason
			assert.Equal(t, "analyst1", e.AddedBy)
			return nil
		})

	err := svc.AddBlacklistEntry(context.Background(), domain.EntryTypeIP, "203.0.113.99", "", "analyst1")
	require.NoError(t, err)
}

func TestAddBlacklistEntry_Validation(t *testing.T) {
	svc, _ := newTestFraudService(t)

	err := svc.AddBlacklistEntry(context.Background(), domain.EntryTypeAccount, "", "r", "a")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FRD_001", appErr.Code)

	err = svc.AddBlacklistEntry(context.Background(), domain.EntryType("bogus"), "v", "r", "a")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FRD_001", appErr.Code)
}
