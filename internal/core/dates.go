package core

import (
	"strings"
	"time"
)

// Day-first layouts, one per separator. Non-padded layouts accept both
// "1/2/2025" and "01/02/2025". The ISO layout lets already-normalized
// ledger rows round-trip through the same parser.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-1-2",
}

// ParseDate parses a day-first textual date into a canonical Date.
// Unparseable input yields a null Date and ErrInvalidDate rather than
// aborting: the record is kept for audit and skipped by date-dependent
// aggregates.
func ParseDate(raw string) (Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return NewDate(t.Year(), t.Month(), t.Day()), nil
	}
	return Date{}, ErrInvalidDate
}
