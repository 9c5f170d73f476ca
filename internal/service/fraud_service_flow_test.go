package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"trustlens/internal/adapter/storage/memory"
	"trustlens/internal/core/ports"
	"trustlens/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEngineOverMemory wires the decision engine to the in-process backend,
// the same composition the service runs in degraded mode.
func newEngineOverMemory(t *testing.T) (*service.FraudServiceImpl, *memory.TransactionStore) {
	t.Helper()
	txStore := memory.NewTransactionStore()
	blStore := memory.NewBlacklistStore([]string{"9876543210", "1111222233"})

	svc := service.NewFraudService(txStore, blStore, service.FraudOptions{
		WindowSize:     5,
		ZThreshold:     2.5,
		MaxDriftKm:     500,
		BlacklistedIPs: []string{"203.0.113.5"},
		DefaultPhone:   "+916374672882",
	}, zerolog.Nop())
	return svc, txStore
}

func evalReq(txnID string, amount float64) ports.EvaluateRequest {
	return ports.EvaluateRequest{
		Amount:           amount,
		Currency:         "INR",
		Location:         "Chennai",
		CardType:         "Visa",
		SenderAccount:    "1234509876",
		RecipientAccount: "5544332211",
		TransactionID:    txnID,
		ClientIP:         "192.0.2.50",
	}
}

func TestEngineOverMemory_BehavioralOutlierAfterBaseline(t *testing.T) {
	// Skip around the odd-hours window: this test drives the real clock.
	if h := time.Now().Hour(); h < 4 {
		t.Skip("within odd-hours window")
	}

	svc, _ := newEngineOverMemory(t)
	ctx := context.Background()

	for i, amount := range []float64{10, 20, 30, 40, 50} {
		got, err := svc.Evaluate(ctx, evalReq(fmt.Sprintf("TXN-%d", i), amount))
		require.NoError(t, err)
		require.False(t, got.Anomalous, "baseline transaction %d flagged: %v", i, got.Reasons)
	}

	got, err := svc.Evaluate(ctx, evalReq("TXN-OUTLIER", 100))
	require.NoError(t, err)
	assert.True(t, got.Anomalous)
	assert.Equal(t, []string{"Abnormal Amount (Behavioral)"}, got.Reasons)
}

func TestEngineOverMemory_ConcurrentSameCardType(t *testing.T) {
	if h := time.Now().Hour(); h < 4 {
		t.Skip("within odd-hours window")
	}

	svc, txStore := newEngineOverMemory(t)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Evaluate(ctx, evalReq(fmt.Sprintf("TXN-%d", i), 1000))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every evaluation's append must be visible: no lost updates.
	assert.Len(t, svc.Recorded(), n)
	stored, err := txStore.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, n)
}

func TestEngineOverMemory_DistinctCardTypesIsolated(t *testing.T) {
	if h := time.Now().Hour(); h < 4 {
		t.Skip("within odd-hours window")
	}

	svc, _ := newEngineOverMemory(t)
	ctx := context.Background()

	// Build a tight Visa baseline, then submit a Mastercard outlier-sized
	// amount: the windows must not bleed across card types.
	for i, amount := range []float64{10, 20, 30, 40, 50} {
		_, err := svc.Evaluate(ctx, evalReq(fmt.Sprintf("V-%d", i), amount))
		require.NoError(t, err)
	}

	req := evalReq("MC-1", 100)
	req.CardType = "Mastercard"
	got, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.False(t, got.Anomalous, "reasons: %v", got.Reasons)
}
