package google

import (
	"testing"

	"contable/internal/core"
)

func TestParseRow(t *testing.T) {
	row := []any{"2025-01-01", "Gasto", "Vivienda", "Alquiler", "-600", "SÍ"}
	rec, err := parseRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Date.ISO() != "2025-01-01" {
		t.Fatalf("date: got %s", rec.Date.ISO())
	}
	if rec.Type != core.Gasto {
		t.Fatalf("type: got %s", rec.Type)
	}
	if rec.Amount.String() != "-600" {
		t.Fatalf("amount: got %s", rec.Amount)
	}
	if !rec.IsFixed {
		t.Fatal("expected fixed flag set")
	}
}

func TestParseRowShortAndBlank(t *testing.T) {
	// Hand-edited sheets leave short rows and blank cells behind.
	rec, err := parseRow([]any{"", "Ingreso", "", "Abono"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Date.IsNull() {
		t.Fatal("blank date must be null")
	}
	if !rec.Amount.IsZero() {
		t.Fatalf("blank amount must be zero, got %s", rec.Amount)
	}
	if rec.IsFixed {
		t.Fatal("missing flag cell must not be fixed")
	}
}

func TestParseRowBadAmount(t *testing.T) {
	if _, err := parseRow([]any{"2025-01-01", "Gasto", "", "x", "abc", "NO"}); err == nil {
		t.Fatal("expected error for malformed stored amount")
	}
}

func TestFixedText(t *testing.T) {
	if fixedText(true) != "SÍ" || fixedText(false) != "NO" {
		t.Fatal("flag text must match the spreadsheet convention")
	}
}
