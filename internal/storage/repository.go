// Package storage is the SQLite ledger repository: the local write side
// of the pipeline, plus the pending-sync queue the sheet worker drains.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"contable/internal/core"
	"contable/internal/ledger"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Repository = (*SQLiteRepository)(nil)

// PendingRow is a stored record awaiting sync to the remote ledger.
type PendingRow struct {
	ID     int64
	Record core.TransactionRecord
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]core.TransactionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT fecha, tipo, categoria, descripcion, monto, es_fijo
		 FROM movimientos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load movimientos: %w", err)
	}
	defer rows.Close()

	var records []core.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movimientos: %w", err)
	}
	return records, nil
}

func (r *SQLiteRepository) Append(ctx context.Context, records []core.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movimientos (fecha, tipo, categoria, descripcion, monto, es_fijo)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var fecha any
		if !rec.Date.IsNull() {
			fecha = rec.Date.ISO()
		}
		if _, err := stmt.ExecContext(ctx, fecha, string(rec.Type), rec.Category,
			rec.Description, rec.Amount.String(), boolToInt(rec.IsFixed)); err != nil {
			return fmt.Errorf("insert movimiento %q: %w", rec.Description, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	slog.InfoContext(ctx, "Batch appended to SQLite", "rows", len(records))
	return nil
}

func (r *SQLiteRepository) MarkFixed(ctx context.Context, keys []core.ObligationKey) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark fixed: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		// Amounts are stored in the same canonical text form the key
		// carries, so string equality is exact value equality. Rows
		// already mirrored move to flag_pending so the worker updates
		// the remote flag instead of appending a duplicate row.
		if _, err := tx.ExecContext(ctx,
			`UPDATE movimientos
			 SET es_fijo = 1,
			     sync_status = CASE WHEN sync_status = 'synced' THEN 'flag_pending' ELSE sync_status END
			 WHERE descripcion = ? AND monto = ? AND es_fijo = 0`,
			key.Description, key.Amount); err != nil {
			return fmt.Errorf("mark fixed %q: %w", key.Description, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark fixed: %w", err)
	}
	return nil
}

// PendingSync returns up to limit rows not yet mirrored to the remote
// ledger, oldest first.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]PendingRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, fecha, tipo, categoria, descripcion, monto, es_fijo
		 FROM movimientos WHERE sync_status = 'pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load pending rows: %w", err)
	}
	defer rows.Close()

	var pending []PendingRow
	for rows.Next() {
		var id int64
		rec, err := scanRecordWithID(rows, &id)
		if err != nil {
			return nil, err
		}
		pending = append(pending, PendingRow{ID: id, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending rows: %w", err)
	}
	return pending, nil
}

// FlagPromotion is a mirrored row whose fixed flag was raised after the
// mirror, so the remote copy needs a flag update rather than an append.
type FlagPromotion struct {
	ID  int64
	Key core.ObligationKey
}

// PendingFlagSync returns rows whose promotion still has to reach the
// remote ledger.
func (r *SQLiteRepository) PendingFlagSync(ctx context.Context, limit int) ([]FlagPromotion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, descripcion, monto FROM movimientos
		 WHERE sync_status = 'flag_pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load flag promotions: %w", err)
	}
	defer rows.Close()

	var promotions []FlagPromotion
	for rows.Next() {
		var p FlagPromotion
		if err := rows.Scan(&p.ID, &p.Key.Description, &p.Key.Amount); err != nil {
			return nil, fmt.Errorf("scan flag promotion: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flag promotions: %w", err)
	}
	return promotions, nil
}

// MarkSynced flags rows as mirrored to the remote ledger.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE movimientos SET sync_status = 'synced' WHERE id IN (`+placeholders+`)`,
		args...); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// MarkSyncError flags rows whose mirroring failed so the periodic pass
// can distinguish them from fresh work.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE movimientos SET sync_status = 'error' WHERE id IN (`+placeholders+`)`,
		args...); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Rows marked with sync error", "count", len(ids))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(rs rowScanner) (core.TransactionRecord, error) {
	return scanRecordWithID(rs, nil)
}

func scanRecordWithID(rs rowScanner, id *int64) (core.TransactionRecord, error) {
	var (
		fecha   sql.NullString
		tipo    string
		cat     string
		desc    string
		monto   string
		esFijo  int
		targets []any
	)
	if id != nil {
		targets = append(targets, id)
	}
	targets = append(targets, &fecha, &tipo, &cat, &desc, &monto, &esFijo)
	if err := rs.Scan(targets...); err != nil {
		return core.TransactionRecord{}, fmt.Errorf("scan movimiento: %w", err)
	}

	rec := core.TransactionRecord{
		Type:        core.TransactionType(tipo),
		Category:    cat,
		Description: desc,
		IsFixed:     esFijo != 0,
	}
	if fecha.Valid && fecha.String != "" {
		d, err := core.ParseDate(fecha.String)
		if err != nil {
			return core.TransactionRecord{}, fmt.Errorf("stored date %q: %w", fecha.String, err)
		}
		rec.Date = d
	}
	amount, err := core.ParseAmount(monto)
	if err != nil {
		return core.TransactionRecord{}, fmt.Errorf("stored amount %q: %w", monto, err)
	}
	rec.Amount = amount
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
