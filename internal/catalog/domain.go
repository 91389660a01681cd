// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Book is a circulating title and its copy counts. AvailableCopies moves
// only in steps of one, driven by borrow and return transactions, and must
// stay within [0, TotalCopies].
type Book struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	TotalCopies     int       `json:"total_copies" db:"total_copies"`
	AvailableCopies int       `json:"available_copies" db:"available_copies"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CopiesConsistent reports whether the copy counts satisfy the catalog
// invariant.
func (b *Book) CopiesConsistent() bool {
	return b.AvailableCopies >= 0 && b.AvailableCopies <= b.TotalCopies
}
