package core

import (
	"reflect"
	"testing"
)

func fixedRecord(day, desc, amount string) TransactionRecord {
	r := record(day, desc, amount)
	r.IsFixed = true
	return r
}

func TestDedupeFixedKeepsMostRecent(t *testing.T) {
	in := []TransactionRecord{
		fixedRecord("01/01/2025", "Alquiler", "-600.00"),
		fixedRecord("01/02/2025", "Alquiler", "-600.00"),
		fixedRecord("05/01/2025", "Netflix", "-12.99"),
		fixedRecord("05/03/2025", "Netflix", "-12.99"),
	}
	out := DedupeFixed(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 representatives, got %d", len(out))
	}
	if out[0].Description != "Alquiler" || out[0].Date.ISO() != "2025-02-01" {
		t.Fatalf("unexpected representative %+v", out[0])
	}
	if out[1].Description != "Netflix" || out[1].Date.ISO() != "2025-03-05" {
		t.Fatalf("unexpected representative %+v", out[1])
	}
}

func TestDedupeFixedIgnoresNonFixedAndIncome(t *testing.T) {
	salary := fixedRecord("01/01/2025", "Nomina", "1800")
	oneOff := record("02/01/2025", "Cine", "-9.50")
	out := DedupeFixed([]TransactionRecord{salary, oneOff})
	if len(out) != 0 {
		t.Fatalf("fixed income and one-offs must be excluded, got %+v", out)
	}
}

func TestDedupeFixedIdempotent(t *testing.T) {
	in := []TransactionRecord{
		fixedRecord("01/01/2025", "Alquiler", "-600.00"),
		fixedRecord("01/02/2025", "Alquiler", "-600.00"),
		fixedRecord("05/02/2025", "Netflix", "-12.99"),
		fixedRecord("05/01/2025", "Netflix", "-12.99"),
	}
	once := DedupeFixed(in)
	twice := DedupeFixed(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe must be idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestFixedFloor(t *testing.T) {
	in := []TransactionRecord{
		fixedRecord("01/01/2025", "Alquiler", "-600.00"),
		fixedRecord("01/02/2025", "Alquiler", "-600.00"),
		fixedRecord("05/02/2025", "Netflix", "-12.99"),
	}
	if got := FixedFloor(in); got.String() != "612.99" {
		t.Fatalf("expected floor 612.99, got %s", got)
	}
	if got := FixedFloor(nil); !got.IsZero() {
		t.Fatalf("empty set must have zero floor, got %s", got)
	}
}

func TestSummarize(t *testing.T) {
	in := []TransactionRecord{
		record("01/01/2025", "Nomina", "1800"),
		record("02/01/2025", "Alquiler", "-600"),
		record("03/01/2025", "Super", "-84.30"),
		record("04/01/2025", "Fallida", "0"), // excluded from aggregates
	}
	s := Summarize(in)
	if s.Records != 3 {
		t.Fatalf("expected 3 counted records, got %d", s.Records)
	}
	if s.Balance.String() != "1115.7" {
		t.Fatalf("balance: got %s", s.Balance)
	}
	if s.Income.String() != "1800" {
		t.Fatalf("income: got %s", s.Income)
	}
	if s.Expenses.String() != "-684.3" {
		t.Fatalf("expenses: got %s", s.Expenses)
	}
}
