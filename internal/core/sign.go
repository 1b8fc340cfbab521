package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ResolveSign determines the final signed amount and the movement type.
//
// When the source supplies an explicit label the label wins: Gasto forces
// a negative amount and Ingreso a positive one, regardless of the sign
// the magnitude already carries. This corrects exports that omit the
// minus on expenses and sheet rows where the stored sign and the label
// disagree (the label reflects user intent).
//
// Without a recognized label the magnitude passes through unchanged and
// the type is derived from its sign, negative meaning expense.
func ResolveSign(declared string, magnitude decimal.Decimal) (decimal.Decimal, TransactionType) {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "gasto", "expense":
		return magnitude.Abs().Neg(), Gasto
	case "ingreso", "income":
		return magnitude.Abs(), Ingreso
	}
	if magnitude.IsNegative() {
		return magnitude, Gasto
	}
	return magnitude, Ingreso
}
