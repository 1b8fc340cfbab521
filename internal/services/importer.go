// Package services orchestrates the pipeline over a ledger repository:
// batch import with recurrence detection, and the planning/overview
// read paths.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"contable/internal/core"
	"contable/internal/ingest"
	"contable/internal/ledger"
)

// SyncPublisher notifies the sync worker that a batch landed. Nil-safe
// by construction: the service treats a missing publisher as "sync
// disabled" and a failing one as non-fatal, the batch is already saved.
type SyncPublisher interface {
	PublishImportSync(ctx context.Context, batchID string, rows int) error
}

// ImportResult reports one processed batch.
type ImportResult struct {
	BatchID   string
	Imported  int
	Fixed     int // batch records flagged fixed
	Promoted  int // historical records retroactively promoted
	RowErrors []ingest.RowError
}

// ImportService runs one import batch end to end.
type ImportService struct {
	repo            ledger.Repository
	publisher       SyncPublisher
	defaultCategory string
}

func NewImportService(repo ledger.Repository, publisher SyncPublisher, defaultCategory string) *ImportService {
	return &ImportService{
		repo:            repo,
		publisher:       publisher,
		defaultCategory: defaultCategory,
	}
}

// Import parses a CSV batch, recomputes recurrence against the full
// history plus the new rows, appends the batch and retroactively
// promotes previously-unflagged history records whose obligation now
// qualifies. Structural failures (missing columns) abort before
// anything is written; per-row failures ride along in the result.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	batch, err := ingest.ParseBatch(r, ingest.Options{DefaultCategory: s.defaultCategory})
	if err != nil {
		return nil, err
	}

	history, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	fixed := core.DetectRecurring(history, batch.Records)
	flagged := core.ApplyFixedFlags(batch.Records, fixed)

	// History keys that qualify but are not flagged in the store yet.
	promote := make(map[core.ObligationKey]struct{})
	for _, rec := range history {
		if rec.IsFixed {
			continue
		}
		if _, ok := fixed[rec.Key()]; ok {
			promote[rec.Key()] = struct{}{}
		}
	}

	if err := s.repo.Append(ctx, batch.Records); err != nil {
		return nil, fmt.Errorf("append batch: %w", err)
	}

	if len(promote) > 0 {
		keys := make([]core.ObligationKey, 0, len(promote))
		for k := range promote {
			keys = append(keys, k)
		}
		if err := s.repo.MarkFixed(ctx, keys); err != nil {
			return nil, fmt.Errorf("promote fixed history: %w", err)
		}
	}

	result := &ImportResult{
		BatchID:   uuid.NewString(),
		Imported:  len(batch.Records),
		Fixed:     flagged,
		Promoted:  len(promote),
		RowErrors: batch.RowErrors,
	}

	if s.publisher != nil {
		if err := s.publisher.PublishImportSync(ctx, result.BatchID, result.Imported); err != nil {
			// Batch is saved locally; the periodic worker pass will catch up.
			slog.ErrorContext(ctx, "Failed to publish import sync message",
				"batch_id", result.BatchID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Import batch processed",
		"batch_id", result.BatchID,
		"imported", result.Imported,
		"fixed", result.Fixed,
		"promoted", result.Promoted,
		"row_errors", len(result.RowErrors))

	return result, nil
}
