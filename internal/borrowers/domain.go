// internal/borrowers/domain.go
package borrowers

import (
	"time"

	"github.com/google/uuid"
)

// Borrower is a library patron. Only active borrowers may check items out.
type Borrower struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Credential holds a borrower's login secret, salted and hashed.
type Credential struct {
	BorrowerID   uuid.UUID `json:"borrower_id" db:"borrower_id"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
}
