// internal/circulation/domain.go
package circulation

import (
	"time"

	"github.com/google/uuid"

	"libris/internal/policy"
)

// Status is the lifecycle state of a borrow record. OVERDUE is never
// stored: it is a projection of an unreturned record whose due date has
// passed, so the stored state is only ever ACTIVE or RETURNED.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusOverdue  Status = "OVERDUE"
	StatusReturned Status = "RETURNED"
)

// Condition describes the physical state of a returned item.
type Condition string

const (
	ConditionGood    Condition = "GOOD"
	ConditionDamaged Condition = "DAMAGED"
	ConditionLost    Condition = "LOST"
)

// Valid reports whether c is a known return condition.
func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionLost:
		return true
	}
	return false
}

// BorrowRecord is one circulation of one copy. Records are append-only
// history: they are mutated by renew and return but never deleted.
type BorrowRecord struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	BookID       uuid.UUID  `json:"book_id" db:"book_id"`
	BorrowerID   uuid.UUID  `json:"borrower_id" db:"borrower_id"`
	BorrowDate   time.Time  `json:"borrow_date" db:"borrow_date"`
	DueDate      time.Time  `json:"due_date" db:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty" db:"return_date"`
	RenewalCount int        `json:"renewal_count" db:"renewal_count"`
	Version      int        `json:"version" db:"version"`
}

// Returned reports whether the record has reached its terminal state.
func (r *BorrowRecord) Returned() bool {
	return r.ReturnDate != nil
}

// StatusAt projects the record's lifecycle state at the given time.
func (r *BorrowRecord) StatusAt(now time.Time) Status {
	if r.Returned() {
		return StatusReturned
	}
	if policy.OverdueDays(r.DueDate, now) > 0 {
		return StatusOverdue
	}
	return StatusActive
}

// renewalState exposes the fields the renewal rules need.
func (r *BorrowRecord) renewalState() policy.RenewalState {
	return policy.RenewalState{
		Returned:     r.Returned(),
		DueDate:      r.DueDate,
		RenewalCount: r.RenewalCount,
	}
}

// RecordView is a BorrowRecord together with its projected status, the
// shape handed to API consumers.
type RecordView struct {
	BorrowRecord
	Status Status `json:"status"`
}

// View projects the record at now.
func (r *BorrowRecord) View(now time.Time) *RecordView {
	return &RecordView{BorrowRecord: *r, Status: r.StatusAt(now)}
}

// RecordFilter narrows a record listing. Nil/zero fields match everything.
type RecordFilter struct {
	BorrowerID *uuid.UUID
	BookID     *uuid.UUID
	OnlyOpen   bool
}
