// internal/catalog/service.go
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrBookNotFound is returned when the book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrInvalidCopies is returned when a copy-count update would break
	// the catalog invariant.
	ErrInvalidCopies = errors.New("copy counts must satisfy 0 <= available <= total")
	// ErrCopiesCheckedOut is returned when total copies would be reduced
	// below the number currently on loan.
	ErrCopiesCheckedOut = errors.New("cannot reduce total copies below the number checked out")
)

// Service defines the interface for the catalog service.
type Service interface {
	Add(ctx context.Context, isbn, title, author string, totalCopies int) (*Book, error)
	Get(ctx context.Context, id uuid.UUID) (*Book, error)
	Search(ctx context.Context, query string) ([]*Book, error)
	UpdateCopies(ctx context.Context, id uuid.UUID, totalCopies int) (*Book, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// Store is the persistence contract for books.
type Store interface {
	GetBook(ctx context.Context, id uuid.UUID) (*Book, error)
	SaveBook(ctx context.Context, book *Book) error
	ListBooks(ctx context.Context, query string) ([]*Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}
