// internal/borrowers/service.go
package borrowers

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrBorrowerNotFound is returned when the borrower does not exist.
	ErrBorrowerNotFound = errors.New("borrower not found")
	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRateLimited is returned when registration or login attempts
	// exceed the allowed rate.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Service defines the interface for the borrower directory.
type Service interface {
	Register(ctx context.Context, email, name, password string) (*Borrower, error)
	Authenticate(ctx context.Context, email, password string) (*Borrower, error)
	Get(ctx context.Context, id uuid.UUID) (*Borrower, error)
	List(ctx context.Context) ([]*Borrower, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Borrower, error)
}

// Store is the persistence contract for borrowers and their credentials.
type Store interface {
	GetBorrower(ctx context.Context, id uuid.UUID) (*Borrower, error)
	GetBorrowerByEmail(ctx context.Context, email string) (*Borrower, error)
	SaveBorrower(ctx context.Context, b *Borrower) error
	ListBorrowers(ctx context.Context) ([]*Borrower, error)
	GetCredential(ctx context.Context, borrowerID uuid.UUID) (*Credential, error)
	SaveCredential(ctx context.Context, c *Credential) error
}
