// Package worker mirrors the local SQLite ledger to the remote Google
// Sheet: appended rows and retroactive fixed-flag promotions.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"contable/internal/amqp"
	"contable/internal/core"
	"contable/internal/ledger"
	"contable/internal/storage"
)

// Consumer is the AMQP side the worker listens on.
type Consumer interface {
	ConsumeImportSync(ctx context.Context, handler func(context.Context, *amqp.ImportSyncMessage) error) error
}

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	remote    ledger.Repository
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, remote ledger.Repository, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		remote:    remote,
		batchSize: batchSize,
	}
}

// Run consumes import messages and drains the queues on a periodic
// ticker as a catch-up for missed messages. It blocks until the context
// is cancelled.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer, interval time.Duration) error {
	// Catch up on anything left over from a previous run.
	if err := w.Drain(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sync check failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			err := consumer.ConsumeImportSync(ctx, w.HandleImportMessage)
			if err != nil && err != context.Canceled {
				return fmt.Errorf("consume import sync: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := w.Drain(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

// HandleImportMessage reacts to one import notification.
func (w *SyncWorker) HandleImportMessage(ctx context.Context, msg *amqp.ImportSyncMessage) error {
	slog.InfoContext(ctx, "Processing import sync message",
		"batch_id", msg.BatchID, "rows", msg.Rows)
	return w.Drain(ctx)
}

// Drain pushes all pending appends and flag promotions to the remote
// ledger.
func (w *SyncWorker) Drain(ctx context.Context) error {
	for {
		n, err := w.syncAppendBatch(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	for {
		n, err := w.syncFlagBatch(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	return nil
}

func (w *SyncWorker) syncAppendBatch(ctx context.Context) (int, error) {
	pending, err := w.storage.PendingSync(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("load pending rows: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	records := make([]core.TransactionRecord, len(pending))
	ids := make([]int64, len(pending))
	for i, p := range pending {
		records[i] = p.Record
		ids[i] = p.ID
	}

	if err := w.remote.Append(ctx, records); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, ids); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "error", markErr)
		}
		return 0, fmt.Errorf("append to remote ledger: %w", err)
	}
	if err := w.storage.MarkSynced(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark rows synced: %w", err)
	}

	slog.InfoContext(ctx, "Rows mirrored to remote ledger", "rows", len(ids))
	return len(ids), nil
}

func (w *SyncWorker) syncFlagBatch(ctx context.Context) (int, error) {
	promotions, err := w.storage.PendingFlagSync(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("load flag promotions: %w", err)
	}
	if len(promotions) == 0 {
		return 0, nil
	}

	seen := make(map[core.ObligationKey]struct{}, len(promotions))
	keys := make([]core.ObligationKey, 0, len(promotions))
	ids := make([]int64, len(promotions))
	for i, p := range promotions {
		ids[i] = p.ID
		if _, ok := seen[p.Key]; !ok {
			seen[p.Key] = struct{}{}
			keys = append(keys, p.Key)
		}
	}

	if err := w.remote.MarkFixed(ctx, keys); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, ids); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "error", markErr)
		}
		return 0, fmt.Errorf("promote flags on remote ledger: %w", err)
	}
	if err := w.storage.MarkSynced(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark promotions synced: %w", err)
	}

	slog.InfoContext(ctx, "Fixed flags mirrored to remote ledger", "keys", len(keys))
	return len(ids), nil
}
