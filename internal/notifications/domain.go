// internal/notifications/domain.go
package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notice.
type Kind string

const (
	KindDueSoon Kind = "DUE_SOON"
	KindOverdue Kind = "OVERDUE"
)

// Notice is an in-app message derived from circulation state. Delivery
// (email, push) is out of scope; notices are only stored and read back.
type Notice struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	BorrowerID uuid.UUID  `json:"borrower_id" db:"borrower_id"`
	RecordID   uuid.UUID  `json:"record_id" db:"record_id"`
	Kind       Kind       `json:"kind" db:"kind"`
	Message    string     `json:"message" db:"message"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty" db:"read_at"`
}

// Unread reports whether the notice has not been read yet.
func (n *Notice) Unread() bool { return n.ReadAt == nil }

// Filter narrows a notice listing.
type Filter struct {
	BorrowerID *uuid.UUID
	RecordID   *uuid.UUID
	Kind       *Kind
	UnreadOnly bool
}
