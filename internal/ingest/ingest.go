package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"contable/internal/core"
)

// DefaultCategory is applied when the source has no category column or
// leaves the cell blank.
const DefaultCategory = "Sin categoria"

// RowError records a recovered per-row failure. The row still yields a
// record (zero amount or null date); the error is reported so the
// caller can distinguish a parse failure from genuine data.
type RowError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

// Batch is the outcome of parsing one import file.
type Batch struct {
	Records   []core.TransactionRecord
	RowErrors []RowError
}

// Options tunes batch parsing.
type Options struct {
	// DefaultCategory overrides the package default when non-empty.
	DefaultCategory string
}

// ParseBatch decodes and parses one CSV import batch into normalized
// records. A missing required column fails the whole batch with a
// *SchemaError; malformed amounts and dates are recovered per row and
// never abort the batch. Source Es_Fijo values are ignored: recurrence
// detection is the only writer of that flag.
func ParseBatch(r io.Reader, opts Options) (Batch, error) {
	defaultCategory := opts.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}

	decoded, err := decodeText(r)
	if err != nil {
		return Batch{}, err
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Batch{}, &SchemaError{Missing: requiredColumns, Required: requiredColumns}
	}
	if err != nil {
		return Batch{}, fmt.Errorf("read header: %w", err)
	}
	sc, err := mapColumns(header)
	if err != nil {
		return Batch{}, err
	}

	var batch Batch
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Batch{}, fmt.Errorf("line %d: %w", line, err)
		}

		rec, rowErrs := parseRow(sc, row, line, defaultCategory)
		batch.Records = append(batch.Records, rec)
		batch.RowErrors = append(batch.RowErrors, rowErrs...)
	}
	return batch, nil
}

func parseRow(sc schema, row []string, line int, defaultCategory string) (core.TransactionRecord, []RowError) {
	var errs []RowError

	rawAmount := sc.field(row, ColMonto)
	amount, err := core.ParseAmount(rawAmount)
	// A deliberately empty cell is not worth reporting; a malformed one is.
	if err != nil && !errors.Is(err, core.ErrEmptyAmount) {
		errs = append(errs, RowError{Line: line, Field: ColMonto, Value: rawAmount, Err: err})
	}

	rawDate := sc.field(row, ColFecha)
	date, err := core.ParseDate(rawDate)
	if err != nil {
		errs = append(errs, RowError{Line: line, Field: ColFecha, Value: rawDate, Err: err})
	}

	amount, typ := core.ResolveSign(sc.field(row, ColTipo), amount)

	category := sc.field(row, ColCategoria)
	if category == "" {
		category = defaultCategory
	}

	return core.TransactionRecord{
		Date:        date,
		Type:        typ,
		Category:    category,
		Description: sc.field(row, ColDescripcion),
		Amount:      amount,
	}, errs
}
