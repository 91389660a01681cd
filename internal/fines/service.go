// internal/fines/service.go
package fines

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateFine is returned when an outstanding overdue fine
	// already exists for the record.
	ErrDuplicateFine = errors.New("record already has an outstanding overdue fine")
	// ErrAlreadyPaid is returned when paying a fine that is already settled.
	ErrAlreadyPaid = errors.New("fine is already paid")
	// ErrFineNotFound is returned when the fine does not exist.
	ErrFineNotFound = errors.New("fine not found")
	// ErrNegativeAmount is returned when issuing a fine with a negative amount.
	ErrNegativeAmount = errors.New("fine amount must not be negative")
	// ErrInvalidReason is returned when issuing a fine with an unknown reason.
	ErrInvalidReason = errors.New("unknown fine reason")
)

// Ledger tracks fine issuance and payment per borrow record. Void exists
// only so a caller can compensate a fine it issued inside a transaction
// that later aborted; settled fines are never removed.
type Ledger interface {
	Issue(ctx context.Context, recordID uuid.UUID, amount decimal.Decimal, reason Reason) (*Fine, error)
	Pay(ctx context.Context, fineID uuid.UUID) (*Fine, error)
	Void(ctx context.Context, fineID uuid.UUID) error
	OutstandingTotal(ctx context.Context, borrowerID uuid.UUID) (decimal.Decimal, error)
	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*Fine, error)
}

// Store is the persistence contract the ledger runs against. Listing by
// borrower resolves the record-to-borrower link inside the store.
type Store interface {
	GetFine(ctx context.Context, id uuid.UUID) (*Fine, error)
	SaveFine(ctx context.Context, fine *Fine) error
	DeleteFine(ctx context.Context, id uuid.UUID) error
	ListFines(ctx context.Context, filter Filter) ([]*Fine, error)
}
