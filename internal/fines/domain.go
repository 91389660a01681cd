// internal/fines/domain.go
package fines

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reason classifies why a fine was issued.
type Reason string

const (
	ReasonOverdue Reason = "OVERDUE"
	ReasonDamage  Reason = "DAMAGE"
	ReasonLost    Reason = "LOST"
)

// Valid reports whether r is one of the known reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonOverdue, ReasonDamage, ReasonLost:
		return true
	}
	return false
}

// Status is a fine's settlement state.
type Status string

const (
	StatusOutstanding Status = "OUTSTANDING"
	StatusPaid        Status = "PAID"
)

// Fine is a monetary penalty linked to a borrow record. The amount is
// frozen at issuance and never recomputed; fines are never deleted.
type Fine struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	BorrowRecordID uuid.UUID       `json:"borrow_record_id" db:"borrow_record_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Reason         Reason          `json:"reason" db:"reason"`
	Status         Status          `json:"status" db:"status"`
	IssueDate      time.Time       `json:"issue_date" db:"issue_date"`
	PaidDate       *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
}

// Filter narrows a fine listing. Nil fields match everything.
type Filter struct {
	RecordID   *uuid.UUID
	BorrowerID *uuid.UUID
	Status     *Status
	Reason     *Reason
}
