package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contable/internal/core"
	"contable/internal/ledger/memory"
	"contable/internal/storage"
)

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "contable.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func rent(t *testing.T, year int, month int) core.TransactionRecord {
	t.Helper()
	amount, err := decimal.NewFromString("-600")
	require.NoError(t, err)
	return core.TransactionRecord{
		Date:        core.NewDate(year, time.Month(month), 1),
		Type:        core.Gasto,
		Category:    "Vivienda",
		Description: "Alquiler",
		Amount:      amount,
	}
}

func TestDrainMirrorsAppends(t *testing.T) {
	local := newTestStorage(t)
	remote := memory.New()
	ctx := context.Background()

	require.NoError(t, local.Append(ctx, []core.TransactionRecord{rent(t, 2025, 1)}))

	w := NewSyncWorker(local, remote, 10)
	require.NoError(t, w.Drain(ctx))

	mirrored, err := remote.Load(ctx)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, "Alquiler", mirrored[0].Description)

	// Nothing left pending.
	pending, err := local.PendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A second drain is a no-op, not a duplicate append.
	require.NoError(t, w.Drain(ctx))
	mirrored, err = remote.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, mirrored, 1)
}

func TestDrainMirrorsFlagPromotions(t *testing.T) {
	local := newTestStorage(t)
	remote := memory.New()
	ctx := context.Background()

	w := NewSyncWorker(local, remote, 10)

	// First month lands and is mirrored unflagged.
	require.NoError(t, local.Append(ctx, []core.TransactionRecord{rent(t, 2025, 1)}))
	require.NoError(t, w.Drain(ctx))

	// Second month promotes the obligation; the already-mirrored row
	// must get a remote flag update, not a duplicate.
	second := rent(t, 2025, 2)
	second.IsFixed = true
	require.NoError(t, local.Append(ctx, []core.TransactionRecord{second}))
	require.NoError(t, local.MarkFixed(ctx, []core.ObligationKey{
		{Description: "Alquiler", Amount: "-600"},
	}))
	require.NoError(t, w.Drain(ctx))

	mirrored, err := remote.Load(ctx)
	require.NoError(t, err)
	require.Len(t, mirrored, 2)
	for _, rec := range mirrored {
		assert.True(t, rec.IsFixed, "row %s must be fixed remotely", rec.Date.ISO())
	}
}
