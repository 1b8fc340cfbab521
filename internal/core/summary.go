package core

import "github.com/shopspring/decimal"

// Summary aggregates a set of records for the overview: total balance,
// income and expenses. Expenses keeps its negative sign.
type Summary struct {
	Balance  decimal.Decimal
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Records  int
}

// Summarize computes ledger totals. Zero-amount records are excluded
// from all financial aggregates.
func Summarize(records []TransactionRecord) Summary {
	s := Summary{
		Balance:  decimal.Zero,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, r := range records {
		if r.Amount.IsZero() {
			continue
		}
		s.Records++
		s.Balance = s.Balance.Add(r.Amount)
		if r.Amount.IsNegative() {
			s.Expenses = s.Expenses.Add(r.Amount)
		} else {
			s.Income = s.Income.Add(r.Amount)
		}
	}
	return s
}
