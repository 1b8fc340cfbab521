package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Gasto   TransactionType = "Gasto"
	Ingreso TransactionType = "Ingreso"
)

type (
	// TransactionType classifies a movement as income or expense.
	TransactionType string

	// Date is a calendar date without a time component. The zero value
	// means "unknown": the source date could not be parsed. Records with
	// an unknown date stay in the ledger for audit but are excluded from
	// recurrence detection and budget aggregates.
	Date struct {
		time.Time
	}

	// MonthBucket is the (year, month) key a record falls into. It is
	// derived from the date for recurrence grouping and never persisted.
	MonthBucket struct {
		Year  int
		Month time.Month
	}

	// ObligationKey identifies "the same obligation" across months: two
	// transactions belong to the same obligation iff their trimmed
	// description and exact amount match. Amount is the canonical decimal
	// string (trailing zeros trimmed) so equal values always produce
	// equal keys.
	ObligationKey struct {
		Description string
		Amount      string
	}

	// TransactionRecord is one normalized ledger movement.
	TransactionRecord struct {
		Date        Date
		Type        TransactionType
		Category    string
		Description string
		Amount      decimal.Decimal
		// IsFixed marks a recurring obligation. It is derived: only
		// recurrence detection sets it, never ingestion.
		IsFixed bool
	}
)

var (
	ErrEmptyAmount     = errors.New("empty amount")
	ErrMalformedAmount = errors.New("malformed amount")
	ErrInvalidDate     = errors.New("invalid date")
)

// NewDate builds a Date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// IsNull reports whether the date is unknown.
func (d Date) IsNull() bool {
	return d.IsZero()
}

// ISO renders the date in canonical YYYY-MM-DD form, or "" when unknown.
func (d Date) ISO() string {
	if d.IsNull() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Bucket returns the month bucket the date falls into. Only meaningful
// for non-null dates.
func (d Date) Bucket() MonthBucket {
	return MonthBucket{Year: d.Year(), Month: d.Month()}
}

// Key returns the obligation key for recurrence and dedupe grouping.
func (t TransactionRecord) Key() ObligationKey {
	return ObligationKey{Description: t.Description, Amount: t.Amount.String()}
}

// Countable reports whether the record participates in date-dependent
// aggregates: zero amounts and unknown dates are excluded.
func (t TransactionRecord) Countable() bool {
	return !t.Date.IsNull() && !t.Amount.IsZero()
}
