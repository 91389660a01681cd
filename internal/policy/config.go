// internal/policy/config.go
package policy

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Config holds the tunable borrowing-policy parameters. Values are always
// produced through Default or Apply, so a Config in circulation has passed
// validation.
type Config struct {
	MaxBooksPerBorrower   int             `json:"max_books_per_borrower"`
	LoanPeriodDays        int             `json:"loan_period_days"`
	RenewalPeriodDays     int             `json:"renewal_period_days"`
	LateFeePerDay         decimal.Decimal `json:"late_fee_per_day"`
	ReservationHoldPeriod int             `json:"reservation_hold_period"`
	MaxRenewals           int             `json:"max_renewals"`
	BlockBorrowsOnFines   bool            `json:"block_borrows_on_fines"`
}

// Update is a partial configuration change. Absent fields keep their
// current value.
type Update struct {
	MaxBooksPerBorrower   *int             `json:"max_books_per_borrower,omitempty"`
	LoanPeriodDays        *int             `json:"loan_period_days,omitempty"`
	RenewalPeriodDays     *int             `json:"renewal_period_days,omitempty"`
	LateFeePerDay         *decimal.Decimal `json:"late_fee_per_day,omitempty"`
	ReservationHoldPeriod *int             `json:"reservation_hold_period,omitempty"`
	MaxRenewals           *int             `json:"max_renewals,omitempty"`
	BlockBorrowsOnFines   *bool            `json:"block_borrows_on_fines,omitempty"`
}

// ValidationError reports the first configuration field that failed its
// bounds check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration field %s: %s", e.Field, e.Message)
}

// Default returns the configuration used when no administrative update has
// ever been applied.
func Default() Config {
	return Config{
		MaxBooksPerBorrower:   5,
		LoanPeriodDays:        14,
		RenewalPeriodDays:     7,
		LateFeePerDay:         decimal.NewFromFloat(0.50),
		ReservationHoldPeriod: 3,
		MaxRenewals:           2,
		BlockBorrowsOnFines:   false,
	}
}

func boundInt(field string, v, min, max int) *ValidationError {
	if v < min || v > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%d is outside [%d, %d]", v, min, max),
		}
	}
	return nil
}

// Apply merges an update into c, validating every present field. Either the
// whole update applies or none of it does.
func (c Config) Apply(u Update) (Config, error) {
	merged := c

	if u.MaxBooksPerBorrower != nil {
		if err := boundInt("max_books_per_borrower", *u.MaxBooksPerBorrower, 1, 20); err != nil {
			return Config{}, err
		}
		merged.MaxBooksPerBorrower = *u.MaxBooksPerBorrower
	}
	if u.LoanPeriodDays != nil {
		if err := boundInt("loan_period_days", *u.LoanPeriodDays, 1, 90); err != nil {
			return Config{}, err
		}
		merged.LoanPeriodDays = *u.LoanPeriodDays
	}
	if u.RenewalPeriodDays != nil {
		if err := boundInt("renewal_period_days", *u.RenewalPeriodDays, 1, 30); err != nil {
			return Config{}, err
		}
		merged.RenewalPeriodDays = *u.RenewalPeriodDays
	}
	if u.LateFeePerDay != nil {
		fee := *u.LateFeePerDay
		if fee.IsNegative() || fee.GreaterThan(decimal.NewFromInt(10)) {
			return Config{}, &ValidationError{
				Field:   "late_fee_per_day",
				Message: fmt.Sprintf("%s is outside [0, 10]", fee),
			}
		}
		merged.LateFeePerDay = fee
	}
	if u.ReservationHoldPeriod != nil {
		if err := boundInt("reservation_hold_period", *u.ReservationHoldPeriod, 1, 14); err != nil {
			return Config{}, err
		}
		merged.ReservationHoldPeriod = *u.ReservationHoldPeriod
	}
	if u.MaxRenewals != nil {
		if err := boundInt("max_renewals", *u.MaxRenewals, 0, 5); err != nil {
			return Config{}, err
		}
		merged.MaxRenewals = *u.MaxRenewals
	}
	if u.BlockBorrowsOnFines != nil {
		merged.BlockBorrowsOnFines = *u.BlockBorrowsOnFines
	}

	return merged, nil
}

// Provider supplies the currently active configuration to policy consumers.
type Provider interface {
	Current() Config
}

// Resolver holds the active configuration and applies validated
// administrative updates atomically. The zero value is not usable; use
// NewResolver.
type Resolver struct {
	mu      sync.RWMutex
	current Config
	version int
}

// NewResolver returns a Resolver seeded with the default configuration.
func NewResolver() *Resolver {
	return &Resolver{current: Default(), version: 1}
}

// Current returns the active configuration.
func (r *Resolver) Current() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Version returns the last-write version of the active configuration,
// starting at 1 for the defaults.
func (r *Resolver) Version() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Update validates and applies a partial update. On success the merged
// configuration replaces the active one in a single step; on failure the
// active configuration is untouched.
func (r *Resolver) Update(u Update) (Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged, err := r.current.Apply(u)
	if err != nil {
		return Config{}, err
	}
	r.current = merged
	r.version++
	return merged, nil
}
