// Package google is the Google Sheets ledger repository. The sheet
// keeps the original spreadsheet shape: one header row with
// Fecha, Tipo, Categoria, Descripcion, Monto, Es_Fijo and the fixed
// flag stored as the text SÍ/NO.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"contable/internal/core"
	"contable/internal/ledger"
)

const (
	fixedYes = "SÍ"
	fixedNo  = "NO"

	// Column layout of the movements sheet, zero-based.
	colFecha       = 0
	colTipo        = 1
	colCategoria   = 2
	colDescripcion = 3
	colMonto       = 4
	colEsFijo      = 5
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ledger.Repository = (*Client)(nil)

// NewFromEnv creates a Sheets-backed ledger from the environment.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME
// (default "Movimientos").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Movimientos"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

func (c *Client) Load(ctx context.Context) ([]core.TransactionRecord, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:F").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}

	records := make([]core.TransactionRecord, 0, len(resp.Values)-1)
	for i, row := range resp.Values[1:] {
		rec, err := parseRow(row)
		if err != nil {
			// The sheet is also edited by hand; skip what cannot be
			// read rather than failing the whole load.
			slog.WarnContext(ctx, "Skipping unreadable sheet row",
				"sheet", c.sheetName, "row", i+2, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) Append(ctx context.Context, records []core.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}
	values := make([][]any, 0, len(records))
	for _, rec := range records {
		values = append(values, []any{
			rec.Date.ISO(),
			string(rec.Type),
			rec.Category,
			rec.Description,
			rec.Amount.String(),
			fixedText(rec.IsFixed),
		})
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:F", &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Rows appended to Google Sheets",
		"sheet", c.sheetName, "rows", len(values))
	return nil
}

func (c *Client) MarkFixed(ctx context.Context, keys []core.ObligationKey) error {
	if len(keys) == 0 {
		return nil
	}
	want := make(map[core.ObligationKey]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:F").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}

	var updates []*gsheet.ValueRange
	for i, row := range resp.Values {
		if i == 0 {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			continue
		}
		if rec.IsFixed {
			continue
		}
		if _, ok := want[rec.Key()]; !ok {
			continue
		}
		updates = append(updates, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!F%d", c.sheetName, i+1),
			Values: [][]any{{fixedYes}},
		})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.Values.
		BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             updates,
		}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("mark fixed on sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Fixed flags raised on Google Sheets",
		"sheet", c.sheetName, "cells", len(updates))
	return nil
}

func parseRow(row []any) (core.TransactionRecord, error) {
	rec := core.TransactionRecord{
		Type:        core.TransactionType(cell(row, colTipo)),
		Category:    cell(row, colCategoria),
		Description: cell(row, colDescripcion),
		IsFixed:     strings.EqualFold(cell(row, colEsFijo), fixedYes),
	}

	if raw := cell(row, colFecha); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.TransactionRecord{}, fmt.Errorf("date %q: %w", raw, err)
		}
		rec.Date = d
	}

	rawAmount := cell(row, colMonto)
	amount, err := core.ParseAmount(rawAmount)
	if err != nil && !errors.Is(err, core.ErrEmptyAmount) {
		return core.TransactionRecord{}, fmt.Errorf("amount %q: %w", rawAmount, err)
	}
	rec.Amount = amount
	return rec, nil
}

func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return strings.TrimSpace(s)
}

func fixedText(fixed bool) string {
	if fixed {
		return fixedYes
	}
	return fixedNo
}
