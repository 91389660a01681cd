// internal/circulation/service.go
package circulation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"libris/internal/catalog"
	"libris/internal/fines"
)

// Service defines the interface for the circulation lifecycle.
type Service interface {
	// Borrow checks one copy of a book out to a borrower.
	Borrow(ctx context.Context, bookID, borrowerID uuid.UUID) (*RecordView, error)
	// Renew extends an active, non-overdue record's due date.
	Renew(ctx context.Context, recordID uuid.UUID) (*RecordView, error)
	// Return closes a record, releases the copy and issues any fines.
	// conditionFee is the administrative charge for a damaged or lost
	// item; it is ignored for condition GOOD.
	Return(ctx context.Context, recordID uuid.UUID, condition Condition, conditionFee decimal.Decimal) (*ReturnResult, error)
	// Record returns a single record with its projected status.
	Record(ctx context.Context, recordID uuid.UUID) (*RecordView, error)
	// ListActive lists open records, optionally for one borrower.
	ListActive(ctx context.Context, borrowerID *uuid.UUID) ([]*RecordView, error)
	// History lists all records, open and closed, optionally for one
	// borrower.
	History(ctx context.Context, borrowerID *uuid.UUID) ([]*RecordView, error)
}

// ReturnResult reports what a return transaction did.
type ReturnResult struct {
	Record        *RecordView `json:"record"`
	OverdueDays   int         `json:"overdue_days"`
	OverdueFine   *fines.Fine `json:"overdue_fine,omitempty"`
	ConditionFine *fines.Fine `json:"condition_fine,omitempty"`
}

// BookStore is the slice of the catalog the lifecycle needs. Saves must be
// atomic with the transaction that invoked them.
type BookStore interface {
	GetBook(ctx context.Context, id uuid.UUID) (*catalog.Book, error)
	SaveBook(ctx context.Context, book *catalog.Book) error
}

// BorrowerDirectory answers borrower eligibility questions.
type BorrowerDirectory interface {
	BorrowerStatus(ctx context.Context, id uuid.UUID) (*BorrowerInfo, error)
	CountActiveRecords(ctx context.Context, borrowerID uuid.UUID) (int, error)
}

// BorrowerInfo is the directory's view of a borrower.
type BorrowerInfo struct {
	ID       uuid.UUID
	IsActive bool
}

// RecordStore is the persistence contract for borrow records.
type RecordStore interface {
	GetRecord(ctx context.Context, id uuid.UUID) (*BorrowRecord, error)
	SaveRecord(ctx context.Context, record *BorrowRecord) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]*BorrowRecord, error)
}
