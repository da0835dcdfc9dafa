package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
	"github.com/sheikh-saqib/payments-replay-engine/internal/storage/memory"
)

func TestAccountRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryTransactionStore()

	_, found, err := store.RetrieveAccount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found, "unseen client should be absent")

	account := models.Account{Client: 1, Available: 15000, Held: 500, Total: 15500}
	require.NoError(t, store.SaveAccount(ctx, account))

	got, found, err := store.RetrieveAccount(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, account, got)

	// Upsert replaces the whole record.
	account.Available = 0
	account.Locked = true
	require.NoError(t, store.SaveAccount(ctx, account))

	got, found, err = store.RetrieveAccount(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, account, got)
}

func TestSaveTransaction_RoutesByType(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryTransactionStore()

	deposit := models.Transaction{Type: models.TypeDeposit, Client: 1, Tx: 1, Amount: 5000}
	require.NoError(t, store.SaveTransaction(ctx, deposit))

	got, found, err := store.RetrieveTransaction(ctx, 1, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, deposit, got)

	// A dispute against the same key must not shadow the deposit in the
	// general ledger.
	dispute := models.Transaction{Type: models.TypeDispute, Client: 1, Tx: 1}
	require.NoError(t, store.SaveTransaction(ctx, dispute))

	got, found, err = store.RetrieveTransaction(ctx, 1, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, deposit, got, "dispute record should not replace the deposit")

	disputed, err := store.HasDisputes(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, disputed)
}

func TestSaveTransaction_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryTransactionStore()

	first := models.Transaction{Type: models.TypeDeposit, Client: 1, Tx: 7, Amount: 1000}
	second := models.Transaction{Type: models.TypeDeposit, Client: 1, Tx: 7, Amount: 2000}
	require.NoError(t, store.SaveTransaction(ctx, first))
	require.NoError(t, store.SaveTransaction(ctx, second))

	got, found, err := store.RetrieveTransaction(ctx, 1, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, got)
}

func TestHasDisputes_ClearDispute(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryTransactionStore()

	disputed, err := store.HasDisputes(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, disputed)

	require.NoError(t, store.SaveTransaction(ctx, models.Transaction{Type: models.TypeDispute, Client: 1, Tx: 1}))

	disputed, err = store.HasDisputes(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, disputed)

	// Dispute keys are per (client, tx) pair.
	disputed, err = store.HasDisputes(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, disputed)

	require.NoError(t, store.ClearDispute(ctx, 1, 1))
	disputed, err = store.HasDisputes(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, disputed)

	// Clearing an absent key is a no-op, not an error.
	require.NoError(t, store.ClearDispute(ctx, 9, 9))
}

func TestRetrieveAllAccounts_SortedByClient(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryTransactionStore()

	for _, client := range []uint16{5, 1, 3} {
		require.NoError(t, store.SaveAccount(ctx, models.NewAccount(client)))
	}

	accounts, err := store.RetrieveAllAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, uint16(1), accounts[0].Client)
	assert.Equal(t, uint16(3), accounts[1].Client)
	assert.Equal(t, uint16(5), accounts[2].Client)
}
