// internal/policy/engine.go
package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// The engine works at calendar-day granularity: the time-of-day component
// of every timestamp is ignored, so a return at 23:59 on the due date is
// not overdue. All dates are normalized to midnight UTC.

// day truncates t to its UTC calendar day.
func day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DueDate computes the due date for a loan starting at borrowDate.
func DueDate(borrowDate time.Time, loanPeriodDays int) time.Time {
	return day(borrowDate).AddDate(0, 0, loanPeriodDays)
}

// OverdueDays returns how many full calendar days now is past dueDate,
// clamped to zero when now is on or before the due date.
func OverdueDays(dueDate, now time.Time) int {
	d := int(day(now).Sub(day(dueDate)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// FineAmount computes the overdue fine: overdueDays * lateFeePerDay,
// rounded half-up to two decimal places.
func FineAmount(overdueDays int, lateFeePerDay decimal.Decimal) decimal.Decimal {
	if overdueDays <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(overdueDays)).Mul(lateFeePerDay).Round(2)
}

// RenewalState is the slice of a borrow record the renewal rules look at.
type RenewalState struct {
	Returned     bool
	DueDate      time.Time
	RenewalCount int
}

// CanRenew reports whether a record may be renewed at now: it must not be
// returned, not be overdue, and still be under the renewal limit.
func CanRenew(st RenewalState, cfg Config, now time.Time) bool {
	if st.Returned {
		return false
	}
	if OverdueDays(st.DueDate, now) > 0 {
		return false
	}
	return st.RenewalCount < cfg.MaxRenewals
}

// RenewedDueDate extends the current due date by the renewal period. The
// extension is anchored on the due date, not on now, so elapsed time is
// never erased by a renewal.
func RenewedDueDate(st RenewalState, cfg Config) time.Time {
	return day(st.DueDate).AddDate(0, 0, cfg.RenewalPeriodDays)
}

// DueWithin reports whether dueDate falls within the next `days` calendar
// days of now, due date included, and is not already past.
func DueWithin(dueDate, now time.Time, days int) bool {
	if OverdueDays(dueDate, now) > 0 {
		return false
	}
	return !day(dueDate).After(day(now).AddDate(0, 0, days))
}
