// internal/circulation/errors.go
package circulation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Business-rule violations. These are surfaced verbatim to the caller and
// never retried.
var (
	ErrNoCopiesAvailable  = errors.New("no copies of this book are available")
	ErrBorrowLimitReached = errors.New("borrower has reached the maximum number of borrowed books")
	ErrInactiveBorrower   = errors.New("borrower account is not active")
	ErrOutstandingFines   = errors.New("borrower has outstanding fines")
	ErrRenewalNotAllowed  = errors.New("record cannot be renewed")
	ErrAlreadyReturned    = errors.New("record is already returned")
	ErrInvalidCondition   = errors.New("unknown return condition")
	ErrNegativeFee        = errors.New("condition fee must not be negative")
)

// Not-found lookups, surfaced as 404-equivalents.
var (
	ErrRecordNotFound   = errors.New("borrow record not found")
	ErrBorrowerNotFound = errors.New("borrower not found")
)

// IsPrecondition reports whether err is a business-rule violation rather
// than an infrastructure failure.
func IsPrecondition(err error) bool {
	for _, target := range []error{
		ErrNoCopiesAvailable,
		ErrBorrowLimitReached,
		ErrInactiveBorrower,
		ErrOutstandingFines,
		ErrRenewalNotAllowed,
		ErrAlreadyReturned,
		ErrInvalidCondition,
		ErrNegativeFee,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// InvariantViolationError indicates the copy-count invariant would be
// broken. It points at a concurrency-control failure upstream: the
// triggering transaction is aborted with no partial mutation and the error
// is treated as fatal, never shown as a user-correctable condition.
type InvariantViolationError struct {
	BookID    uuid.UUID
	Available int
	Total     int
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: book %s would have %d available of %d total copies",
		e.BookID, e.Available, e.Total)
}
