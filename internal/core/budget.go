package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DedupeFixed collapses fixed expenses to one representative per
// obligation so a monthly budget counts each obligation once, not once
// per historical occurrence. Input records that are not fixed expenses
// (IsFixed with a negative amount) are ignored; fixed income is out of
// scope for the cost floor. The most recent occurrence by date wins.
// The result is sorted by description for stable output, and the
// operation is idempotent: dedupe of its own output is itself.
func DedupeFixed(records []TransactionRecord) []TransactionRecord {
	latest := make(map[ObligationKey]TransactionRecord)
	for _, r := range records {
		if !r.IsFixed || !r.Amount.IsNegative() {
			continue
		}
		key := r.Key()
		cur, ok := latest[key]
		if !ok || r.Date.After(cur.Date.Time) {
			latest[key] = r
		}
	}

	out := make([]TransactionRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Description != out[j].Description {
			return out[i].Description < out[j].Description
		}
		return out[i].Amount.LessThan(out[j].Amount)
	})
	return out
}

// FixedFloor sums deduplicated fixed expenses into the projected
// recurring monthly outflow, as a positive figure.
func FixedFloor(records []TransactionRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range DedupeFixed(records) {
		total = total.Add(r.Amount)
	}
	return total.Neg()
}
