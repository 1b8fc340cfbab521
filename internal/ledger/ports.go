// Package ledger defines the repository port the pipeline is wired
// against, decoupling the core from any particular store.
package ledger

import (
	"context"

	"contable/internal/core"
)

// Repository is the ledger store. The ledger is append-only: historical
// amounts are never rewritten; the only permitted mutation is raising
// the fixed flag when recurrence detection retroactively promotes old
// records.
type Repository interface {
	// Load returns the full normalized ledger.
	Load(ctx context.Context) ([]core.TransactionRecord, error)
	// Append adds normalized records to the ledger.
	Append(ctx context.Context, records []core.TransactionRecord) error
	// MarkFixed raises the fixed flag on every stored record matching
	// one of the obligation keys.
	MarkFixed(ctx context.Context, keys []core.ObligationKey) error
}
