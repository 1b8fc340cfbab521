// Package core implements the normalization and recurrence pipeline:
// amount and date parsing, sign resolution, recurrence detection and
// budget deduplication. Everything here is pure and operates on
// in-memory collections; I/O belongs to the adapters.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyMarkers are stripped from amount tokens before parsing.
// Order matters: "EUR" before the lone symbol so "12,50 EUR" and
// "€12,50" both clean up the same way.
var currencyMarkers = strings.NewReplacer(
	"EUR", "", "Eur", "", "eur", "",
	"€", "",
	"−", "-", // U+2212 MINUS SIGN, used by some bank exports
)

// ParseAmount converts a raw monetary token into an exact signed decimal.
//
// It tolerates surrounding quotes, euro markers, a non-ASCII minus sign
// and either locale convention for separators. When a comma is present it
// is the decimal separator and every point is a thousands separator, so
// points are removed before the comma is rewritten ("1.200,50" -> 1200.50);
// doing it in the other order corrupts the magnitude by 100x. Without a
// comma the token is assumed to already use point-as-decimal.
//
// Failures never abort a batch: the zero value is returned together with
// ErrEmptyAmount or ErrMalformedAmount so the caller can tell a parse
// failure apart from a genuine zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = currencyMarkers.Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	// Comma implies comma-as-decimal: drop thousands points first.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	// Discard anything that is not digit, point or minus.
	s = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	if s == "" || s == "-" || s == "." {
		return decimal.Zero, ErrMalformedAmount
	}
	if strings.Count(s, "-") > 1 || strings.LastIndex(s, "-") > 0 {
		return decimal.Zero, ErrMalformedAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMalformedAmount
	}
	return d, nil
}
