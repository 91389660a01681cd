// internal/policy/engine_test.go
package policy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDate(t *testing.T) {
	borrowed := time.Date(2025, 3, 1, 15, 42, 7, 0, time.UTC)
	assert.Equal(t, date(2025, 3, 15), DueDate(borrowed, 14))

	// Time of day never shifts the due date.
	lateEvening := time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, date(2025, 3, 15), DueDate(lateEvening, 14))
}

func TestOverdueDays(t *testing.T) {
	due := date(2025, 3, 15)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"well before due", date(2025, 3, 1), 0},
		{"day before due", date(2025, 3, 14), 0},
		{"on due date at midnight", due, 0},
		{"on due date late evening", time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC), 0},
		{"one day late", date(2025, 3, 16), 1},
		{"one day late, morning", time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC), 1},
		{"six days late", date(2025, 3, 21), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverdueDays(due, tt.now))
		})
	}
}

func TestOverdueDaysIncrementsPerDay(t *testing.T) {
	due := date(2025, 3, 15)
	rapid.Check(t, func(t *rapid.T) {
		days := rapid.IntRange(0, 1000).Draw(t, "days")
		now := due.AddDate(0, 0, days)
		assert.Equal(t, days, OverdueDays(due, now))
		assert.Equal(t, days+1, OverdueDays(due, now.AddDate(0, 0, 1)))
	})
}

func TestOverdueDaysNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		due := time.Unix(rapid.Int64Range(0, 4_000_000_000).Draw(t, "due"), 0).UTC()
		now := time.Unix(rapid.Int64Range(0, 4_000_000_000).Draw(t, "now"), 0).UTC()
		assert.GreaterOrEqual(t, OverdueDays(due, now), 0)
	})
}

func TestFineAmount(t *testing.T) {
	fee := decimal.NewFromFloat(0.50)

	assert.True(t, FineAmount(0, fee).IsZero())
	assert.Equal(t, "3", FineAmount(6, fee).String())
	assert.Equal(t, "0.5", FineAmount(1, fee).String())

	// 6 days at the default fee is exactly 3.00.
	require.True(t, FineAmount(6, fee).Equal(decimal.NewFromFloat(3.00)))

	// Round-half-up at two decimal places.
	third := decimal.NewFromFloat(0.125)
	assert.Equal(t, "0.13", FineAmount(1, third).String())
	assert.Equal(t, "0.38", FineAmount(3, third).String())
}

func TestFineAmountProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		days := rapid.IntRange(0, 10_000).Draw(t, "days")
		cents := rapid.Int64Range(0, 1000).Draw(t, "cents")
		fee := decimal.New(cents, -2)

		amount := FineAmount(days, fee)
		assert.False(t, amount.IsNegative())
		assert.True(t, amount.Equal(amount.Round(2)), "amount must already be at 2dp")

		// Whole-cent fees never need rounding at all.
		exact := decimal.New(cents, -2).Mul(decimal.NewFromInt(int64(days)))
		assert.True(t, amount.Equal(exact))
	})
}

func TestCanRenew(t *testing.T) {
	cfg := Default()
	due := date(2025, 3, 15)

	tests := []struct {
		name  string
		state RenewalState
		now   time.Time
		want  bool
	}{
		{"active under limit", RenewalState{DueDate: due, RenewalCount: 0}, date(2025, 3, 10), true},
		{"active at one renewal", RenewalState{DueDate: due, RenewalCount: 1}, date(2025, 3, 10), true},
		{"on due date", RenewalState{DueDate: due, RenewalCount: 0}, due, true},
		{"at renewal limit", RenewalState{DueDate: due, RenewalCount: cfg.MaxRenewals}, date(2025, 3, 10), false},
		{"overdue", RenewalState{DueDate: due, RenewalCount: 0}, date(2025, 3, 16), false},
		{"returned", RenewalState{Returned: true, DueDate: due, RenewalCount: 0}, date(2025, 3, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRenew(tt.state, cfg, tt.now))
		})
	}
}

func TestRenewedDueDateExtendsFromDueDate(t *testing.T) {
	cfg := Default()
	state := RenewalState{DueDate: date(2025, 3, 15), RenewalCount: 0}

	// The extension anchors on the due date, not on the current time.
	assert.Equal(t, date(2025, 3, 22), RenewedDueDate(state, cfg))
}

func TestDueWithin(t *testing.T) {
	due := date(2025, 3, 15)

	assert.True(t, DueWithin(due, date(2025, 3, 13), 3))
	assert.True(t, DueWithin(due, due, 3))
	assert.False(t, DueWithin(due, date(2025, 3, 10), 3))
	assert.False(t, DueWithin(due, date(2025, 3, 16), 3), "overdue is not due-soon")
}
