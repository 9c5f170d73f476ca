package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, &domain.Transaction{
			ID:            uuid.New(),
			TransactionID: fmt.Sprintf("TXN-%d", i),
			CardType:      "Visa",
			Amount:        float64(100 * (i + 1)),
		}))
	}
	require.NoError(t, store.Append(ctx, &domain.Transaction{
		ID: uuid.New(), TransactionID: "TXN-MC", CardType: "Mastercard",
	}))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "TXN-0", all[0].TransactionID) // capture order preserved

	visa, err := store.ListByCardType(ctx, "Visa")
	require.NoError(t, err)
	assert.Len(t, visa, 3)
}

func TestTransactionStore_Search(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore()

	for i := 0; i < 60; i++ {
		require.NoError(t, store.Append(ctx, &domain.Transaction{
			ID:               uuid.New(),
			TransactionID:    fmt.Sprintf("TXN-%03d", i),
			CardType:         "Visa",
			RecipientAccount: "9876543210",
		}))
	}

	t.Run("newest first and capped at default limit", func(t *testing.T) {
		got, err := store.Search(ctx, ports.TransactionSearchParams{CardType: "visa"})
		require.NoError(t, err)
		require.Len(t, got, ports.DefaultSearchLimit)
		assert.Equal(t, "TXN-059", got[0].TransactionID)
	})

	t.Run("case-insensitive substring", func(t *testing.T) {
		got, err := store.Search(ctx, ports.TransactionSearchParams{TransactionID: "txn-001", Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("account matches sender or recipient", func(t *testing.T) {
		got, err := store.Search(ctx, ports.TransactionSearchParams{AccountNumber: "98765", Limit: 5})
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := store.Search(ctx, ports.TransactionSearchParams{TransactionID: "nope"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestTransactionStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Append(ctx, &domain.Transaction{
				ID:            uuid.New(),
				TransactionID: fmt.Sprintf("TXN-%d", n),
				CardType:      "Visa",
			})
		}(i)
	}
	wg.Wait()

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestBlacklistStore_SeededEntries(t *testing.T) {
	ctx := context.Background()
	store := NewBlacklistStore([]string{"9876543210", "1111222233"})

	listed, err := store.IsListed(ctx, domain.EntryTypeAccount, "9876543210")
	require.NoError(t, err)
	assert.True(t, listed)

	listed, err = store.IsListed(ctx, domain.EntryTypeAccount, "5544332211")
	require.NoError(t, err)
	assert.False(t, listed)

	// Seeded accounts are not blacklisted IPs.
	listed, err = store.IsListed(ctx, domain.EntryTypeIP, "9876543210")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestBlacklistStore_InsertIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewBlacklistStore(nil)

	first := &domain.BlacklistEntry{
		Type:    domain.EntryTypeAccount,
		Value:   "5544332211",
		Reasons: []string{"Geo Drift Detected"},
		AddedBy: "system",
	}
	require.NoError(t, store.Insert(ctx, first))

	// Second insert with different reasons must not overwrite the first.
	second := &domain.BlacklistEntry{
		Type:    domain.EntryTypeAccount,
		Value:   "5544332211",
		Reasons: []string{"Something else"},
		AddedBy: "analyst",
	}
	require.NoError(t, store.Insert(ctx, second))

	listed, err := store.IsListed(ctx, domain.EntryTypeAccount, "5544332211")
	require.NoError(t, err)
	assert.True(t, listed)
	assert.Equal(t, []string{"Geo Drift Detected"}, store.entries["account:5544332211"].Reasons)
}

func TestAnalystStore(t *testing.T) {
	ctx := context.Background()
	store := NewAnalystStore()

	a := &domain.Analyst{ID: uuid.New(), Username: "alice", PasswordHash: "hash"}
	require.NoError(t, store.Create(ctx, a))

	got, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)

	got, err = store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = store.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}
