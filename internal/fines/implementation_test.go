// internal/fines/implementation_test.go
package fines_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/circulation"
	"libris/internal/fines"
	"libris/internal/storage/memory"
	"libris/pkg/clock"
)

func newLedger(t *testing.T) (fines.Ledger, *memory.Store, *clock.Fixed) {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFixed(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	return fines.NewLedger(store, clk), store, clk
}

func seedRecord(t *testing.T, store *memory.Store, borrowerID uuid.UUID) uuid.UUID {
	t.Helper()
	record := &circulation.BorrowRecord{
		ID:         uuid.New(),
		BookID:     uuid.New(),
		BorrowerID: borrowerID,
		BorrowDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		Version:    1,
	}
	require.NoError(t, store.SaveRecord(context.Background(), record))
	return record.ID
}

func TestIssueAndPay(t *testing.T) {
	ledger, store, clk := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	fine, err := ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(3.00), fines.ReasonOverdue)
	require.NoError(t, err)
	assert.Equal(t, fines.StatusOutstanding, fine.Status)
	assert.Equal(t, clk.Now(), fine.IssueDate)

	paid, err := ledger.Pay(context.Background(), fine.ID)
	require.NoError(t, err)
	assert.Equal(t, fines.StatusPaid, paid.Status)
	assert.True(t, paid.Amount.Equal(fine.Amount), "payment must not change the amount")
	require.NotNil(t, paid.PaidDate)
}

func TestPayTwiceFails(t *testing.T) {
	ledger, store, _ := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	fine, err := ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(1.50), fines.ReasonOverdue)
	require.NoError(t, err)

	_, err = ledger.Pay(context.Background(), fine.ID)
	require.NoError(t, err)

	_, err = ledger.Pay(context.Background(), fine.ID)
	assert.ErrorIs(t, err, fines.ErrAlreadyPaid)

	// Amount still frozen.
	stored, err := store.GetFine(context.Background(), fine.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromFloat(1.50)))
}

func TestDuplicateOutstandingOverdueFineRejected(t *testing.T) {
	ledger, store, _ := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	_, err := ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(2.00), fines.ReasonOverdue)
	require.NoError(t, err)

	_, err = ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(4.00), fines.ReasonOverdue)
	assert.ErrorIs(t, err, fines.ErrDuplicateFine)
}

func TestOverdueFineAllowedAgainAfterPayment(t *testing.T) {
	ledger, store, _ := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	first, err := ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(2.00), fines.ReasonOverdue)
	require.NoError(t, err)
	_, err = ledger.Pay(context.Background(), first.ID)
	require.NoError(t, err)

	// Only OUTSTANDING overdue fines are deduplicated.
	_, err = ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(1.00), fines.ReasonOverdue)
	assert.NoError(t, err)
}

func TestDamageFinesAreNotDeduplicated(t *testing.T) {
	ledger, store, _ := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	_, err := ledger.Issue(context.Background(), recordID, decimal.NewFromInt(5), fines.ReasonDamage)
	require.NoError(t, err)
	_, err = ledger.Issue(context.Background(), recordID, decimal.NewFromInt(5), fines.ReasonDamage)
	assert.NoError(t, err)
}

func TestNegativeAmountRejected(t *testing.T) {
	ledger, store, _ := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	_, err := ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(-0.01), fines.ReasonDamage)
	assert.ErrorIs(t, err, fines.ErrNegativeAmount)
}

func TestOutstandingTotalAcrossRecords(t *testing.T) {
	ledger, store, _ := newLedger(t)
	borrowerID := uuid.New()

	first := seedRecord(t, store, borrowerID)
	second := seedRecord(t, store, borrowerID)
	other := seedRecord(t, store, uuid.New())

	_, err := ledger.Issue(context.Background(), first, decimal.NewFromFloat(3.00), fines.ReasonOverdue)
	require.NoError(t, err)
	f2, err := ledger.Issue(context.Background(), second, decimal.NewFromFloat(1.25), fines.ReasonOverdue)
	require.NoError(t, err)
	_, err = ledger.Issue(context.Background(), second, decimal.NewFromFloat(10.00), fines.ReasonDamage)
	require.NoError(t, err)
	_, err = ledger.Issue(context.Background(), other, decimal.NewFromFloat(99.00), fines.ReasonOverdue)
	require.NoError(t, err)

	total, err := ledger.OutstandingTotal(context.Background(), borrowerID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(14.25)), "got %s", total)

	// Paying one fine drops it from the total.
	_, err = ledger.Pay(context.Background(), f2.ID)
	require.NoError(t, err)

	total, err = ledger.OutstandingTotal(context.Background(), borrowerID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(13.00)), "got %s", total)
}

func TestPayUnknownFine(t *testing.T) {
	ledger, _, _ := newLedger(t)
	_, err := ledger.Pay(context.Background(), uuid.New())
	assert.ErrorIs(t, err, fines.ErrFineNotFound)
}

func TestUnknownReasonRejected(t *testing.T) {
	ledger, store, _ := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	_, err := ledger.Issue(context.Background(), recordID, decimal.NewFromInt(5), fines.Reason("GOODWILL"))
	assert.ErrorIs(t, err, fines.ErrInvalidReason)
}

func TestVoidRemovesUnpaidFine(t *testing.T) {
	ledger, store, _ := newLedger(t)
	borrowerID := uuid.New()
	recordID := seedRecord(t, store, borrowerID)

	fine, err := ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(3.00), fines.ReasonOverdue)
	require.NoError(t, err)

	require.NoError(t, ledger.Void(context.Background(), fine.ID))

	all, err := ledger.ListByBorrower(context.Background(), borrowerID)
	require.NoError(t, err)
	assert.Empty(t, all)

	// The slot is free again, not blocked by the voided fine.
	_, err = ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(3.00), fines.ReasonOverdue)
	assert.NoError(t, err)
}

func TestVoidPaidFineFails(t *testing.T) {
	ledger, store, _ := newLedger(t)
	recordID := seedRecord(t, store, uuid.New())

	fine, err := ledger.Issue(context.Background(), recordID, decimal.NewFromFloat(3.00), fines.ReasonOverdue)
	require.NoError(t, err)
	_, err = ledger.Pay(context.Background(), fine.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, ledger.Void(context.Background(), fine.ID), fines.ErrAlreadyPaid)

	stored, err := store.GetFine(context.Background(), fine.ID)
	require.NoError(t, err)
	assert.Equal(t, fines.StatusPaid, stored.Status)
}

func TestVoidUnknownFine(t *testing.T) {
	ledger, _, _ := newLedger(t)
	assert.ErrorIs(t, ledger.Void(context.Background(), uuid.New()), fines.ErrFineNotFound)
}
