// internal/fines/implementation.go
package fines

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"libris/pkg/clock"
)

// ledger implements the Ledger interface.
type ledger struct {
	store Store
	clock clock.Clock
}

// NewLedger creates a fine ledger over the given store.
func NewLedger(store Store, clk clock.Clock) Ledger {
	return &ledger{store: store, clock: clk}
}

// Issue creates a new outstanding fine. At most one outstanding overdue
// fine may exist per record; damage and loss fines are not deduplicated.
func (l *ledger) Issue(ctx context.Context, recordID uuid.UUID, amount decimal.Decimal, reason Reason) (*Fine, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if !reason.Valid() {
		return nil, ErrInvalidReason
	}

	if reason == ReasonOverdue {
		outstanding := StatusOutstanding
		existing, err := l.store.ListFines(ctx, Filter{
			RecordID: &recordID,
			Status:   &outstanding,
			Reason:   &reason,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list fines for record %s: %w", recordID, err)
		}
		if len(existing) > 0 {
			return nil, ErrDuplicateFine
		}
	}

	fine := &Fine{
		ID:             uuid.New(),
		BorrowRecordID: recordID,
		Amount:         amount.Round(2),
		Reason:         reason,
		Status:         StatusOutstanding,
		IssueDate:      l.clock.Now(),
	}
	if err := l.store.SaveFine(ctx, fine); err != nil {
		return nil, fmt.Errorf("failed to save fine: %w", err)
	}
	return fine, nil
}

// Pay settles an outstanding fine. The amount is immutable; only the
// status and paid date change.
func (l *ledger) Pay(ctx context.Context, fineID uuid.UUID) (*Fine, error) {
	fine, err := l.store.GetFine(ctx, fineID)
	if err != nil {
		return nil, err
	}
	if fine.Status == StatusPaid {
		return nil, ErrAlreadyPaid
	}

	now := l.clock.Now()
	fine.Status = StatusPaid
	fine.PaidDate = &now
	if err := l.store.SaveFine(ctx, fine); err != nil {
		return nil, fmt.Errorf("failed to save fine: %w", err)
	}
	return fine, nil
}

// Void removes a fine issued by a transaction that later aborted. Paid
// fines are settled history and cannot be voided.
func (l *ledger) Void(ctx context.Context, fineID uuid.UUID) error {
	fine, err := l.store.GetFine(ctx, fineID)
	if err != nil {
		return err
	}
	if fine.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	if err := l.store.DeleteFine(ctx, fineID); err != nil {
		return fmt.Errorf("failed to delete fine: %w", err)
	}
	return nil
}

// OutstandingTotal sums the outstanding fine amounts across all of a
// borrower's records.
func (l *ledger) OutstandingTotal(ctx context.Context, borrowerID uuid.UUID) (decimal.Decimal, error) {
	outstanding := StatusOutstanding
	list, err := l.store.ListFines(ctx, Filter{BorrowerID: &borrowerID, Status: &outstanding})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list fines for borrower %s: %w", borrowerID, err)
	}

	total := decimal.Zero
	for _, f := range list {
		total = total.Add(f.Amount)
	}
	return total, nil
}

// ListByBorrower returns every fine, settled or not, linked to the
// borrower's records.
func (l *ledger) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*Fine, error) {
	return l.store.ListFines(ctx, Filter{BorrowerID: &borrowerID})
}
