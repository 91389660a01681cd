// internal/circulation/implementation.go
package circulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"libris/internal/fines"
	"libris/internal/policy"
	"libris/pkg/clock"
)

// service implements the Service interface.
type service struct {
	books     BookStore
	borrowers BorrowerDirectory
	records   RecordStore
	ledger    fines.Ledger
	config    policy.Provider
	clock     clock.Clock
	log       *logrus.Logger
	metrics   *metrics
}

// NewService creates a new circulation service instance.
func NewService(
	books BookStore,
	borrowers BorrowerDirectory,
	records RecordStore,
	ledger fines.Ledger,
	config policy.Provider,
	clk clock.Clock,
	log *logrus.Logger,
) Service {
	return &service{
		books:     books,
		borrowers: borrowers,
		records:   records,
		ledger:    ledger,
		config:    config,
		clock:     clk,
		log:       log,
		metrics:   newMetrics(),
	}
}

// Borrow orchestrates the checkout transaction: eligibility checks, copy
// reservation and record creation, with compensation if a later step
// fails after the book was mutated.
func (s *service) Borrow(ctx context.Context, bookID, borrowerID uuid.UUID) (*RecordView, error) {
	cfg := s.config.Current()
	now := s.clock.Now()

	borrower, err := s.borrowers.BorrowerStatus(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if !borrower.IsActive {
		return nil, ErrInactiveBorrower
	}

	if cfg.BlockBorrowsOnFines {
		balance, err := s.ledger.OutstandingTotal(ctx, borrowerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get fine balance: %w", err)
		}
		if balance.IsPositive() {
			return nil, ErrOutstandingFines
		}
	}

	active, err := s.borrowers.CountActiveRecords(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active records: %w", err)
	}
	if active >= cfg.MaxBooksPerBorrower {
		return nil, ErrBorrowLimitReached
	}

	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book.AvailableCopies <= 0 {
		return nil, ErrNoCopiesAvailable
	}

	prevAvailable := book.AvailableCopies
	book.AvailableCopies--
	if !book.CopiesConsistent() {
		return nil, &InvariantViolationError{BookID: book.ID, Available: book.AvailableCopies, Total: book.TotalCopies}
	}
	book.UpdatedAt = now
	if err := s.books.SaveBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save book: %w", err)
	}

	compensate := func() {
		book.AvailableCopies = prevAvailable
		if err := s.books.SaveBook(ctx, book); err != nil {
			s.log.WithError(err).WithField("book_id", bookID).
				Error("failed to roll back book availability after aborted borrow")
		}
	}

	record := &BorrowRecord{
		ID:           uuid.New(),
		BookID:       bookID,
		BorrowerID:   borrowerID,
		BorrowDate:   now,
		DueDate:      policy.DueDate(now, cfg.LoanPeriodDays),
		RenewalCount: 0,
		Version:      1,
	}
	if err := s.records.SaveRecord(ctx, record); err != nil {
		compensate()
		return nil, fmt.Errorf("failed to save borrow record: %w", err)
	}

	s.metrics.borrows.Add(ctx, 1)
	return record.View(now), nil
}

// Renew extends the due date from the current due date, never from now, so
// a renewal cannot erase elapsed time. Overdue or returned records and
// records at the renewal limit are rejected.
func (s *service) Renew(ctx context.Context, recordID uuid.UUID) (*RecordView, error) {
	cfg := s.config.Current()
	now := s.clock.Now()

	record, err := s.records.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if !policy.CanRenew(record.renewalState(), cfg, now) {
		return nil, ErrRenewalNotAllowed
	}

	record.DueDate = policy.RenewedDueDate(record.renewalState(), cfg)
	record.RenewalCount++
	record.Version++
	if err := s.records.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save borrow record: %w", err)
	}

	s.metrics.renewals.Add(ctx, 1)
	return record.View(now), nil
}

// Return closes the record, releases the copy and issues fines: an overdue
// fine computed from policy when the due date has passed, and an
// administrative fine when the item came back damaged or lost.
func (s *service) Return(ctx context.Context, recordID uuid.UUID, condition Condition, conditionFee decimal.Decimal) (*ReturnResult, error) {
	if condition == "" {
		condition = ConditionGood
	}
	if !condition.Valid() {
		return nil, ErrInvalidCondition
	}
	if (condition == ConditionDamaged || condition == ConditionLost) && conditionFee.IsNegative() {
		return nil, ErrNegativeFee
	}

	cfg := s.config.Current()
	now := s.clock.Now()

	record, err := s.records.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Returned() {
		return nil, ErrAlreadyReturned
	}

	book, err := s.books.GetBook(ctx, record.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book.AvailableCopies+1 > book.TotalCopies {
		return nil, &InvariantViolationError{BookID: book.ID, Available: book.AvailableCopies + 1, Total: book.TotalCopies}
	}

	overdueDays := policy.OverdueDays(record.DueDate, now)

	returnDate := now
	record.ReturnDate = &returnDate
	record.Version++
	if err := s.records.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save borrow record: %w", err)
	}

	compensateRecord := func() {
		record.ReturnDate = nil
		record.Version++
		if err := s.records.SaveRecord(ctx, record); err != nil {
			s.log.WithError(err).WithField("record_id", recordID).
				Error("failed to roll back borrow record after aborted return")
		}
	}

	prevAvailable := book.AvailableCopies
	book.AvailableCopies++
	book.UpdatedAt = now
	if err := s.books.SaveBook(ctx, book); err != nil {
		compensateRecord()
		return nil, fmt.Errorf("failed to save book: %w", err)
	}

	result := &ReturnResult{
		Record:      record.View(now),
		OverdueDays: overdueDays,
	}

	compensateAll := func() {
		book.AvailableCopies = prevAvailable
		if err := s.books.SaveBook(ctx, book); err != nil {
			s.log.WithError(err).WithField("book_id", book.ID).
				Error("failed to roll back book availability after aborted return")
		}
		compensateRecord()
	}

	if overdueDays > 0 {
		amount := policy.FineAmount(overdueDays, cfg.LateFeePerDay)
		fine, err := s.ledger.Issue(ctx, record.ID, amount, fines.ReasonOverdue)
		if err != nil {
			compensateAll()
			return nil, fmt.Errorf("failed to issue overdue fine: %w", err)
		}
		result.OverdueFine = fine
		s.metrics.finesIssued.Add(ctx, 1)
	}

	if condition == ConditionDamaged || condition == ConditionLost {
		reason := fines.ReasonDamage
		if condition == ConditionLost {
			reason = fines.ReasonLost
		}
		fine, err := s.ledger.Issue(ctx, record.ID, conditionFee, reason)
		if err != nil {
			if result.OverdueFine != nil {
				if verr := s.ledger.Void(ctx, result.OverdueFine.ID); verr != nil {
					s.log.WithError(verr).WithField("fine_id", result.OverdueFine.ID).
						Error("failed to void overdue fine after aborted return")
				}
			}
			compensateAll()
			return nil, fmt.Errorf("failed to issue %s fine: %w", reason, err)
		}
		result.ConditionFine = fine
		s.metrics.finesIssued.Add(ctx, 1)
	}

	s.metrics.countReturn(ctx, overdueDays > 0)
	return result, nil
}

// Record returns a single record with its projected status at now.
func (s *service) Record(ctx context.Context, recordID uuid.UUID) (*RecordView, error) {
	record, err := s.records.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return record.View(s.clock.Now()), nil
}

// ListActive returns open records with projected statuses.
func (s *service) ListActive(ctx context.Context, borrowerID *uuid.UUID) ([]*RecordView, error) {
	return s.list(ctx, RecordFilter{BorrowerID: borrowerID, OnlyOpen: true})
}

// History returns all records, open and closed.
func (s *service) History(ctx context.Context, borrowerID *uuid.UUID) ([]*RecordView, error) {
	return s.list(ctx, RecordFilter{BorrowerID: borrowerID})
}

func (s *service) list(ctx context.Context, filter RecordFilter) ([]*RecordView, error) {
	records, err := s.records.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	now := s.clock.Now()
	views := make([]*RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, r.View(now))
	}
	return views, nil
}
