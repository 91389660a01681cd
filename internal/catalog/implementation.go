// internal/catalog/implementation.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"libris/pkg/clock"
)

// service implements the Service interface.
type service struct {
	store Store
	clock clock.Clock
}

// NewService creates a new catalog service instance.
func NewService(store Store, clk clock.Clock) Service {
	return &service{store: store, clock: clk}
}

// Add creates a new book. All copies start available.
func (s *service) Add(ctx context.Context, isbn, title, author string, totalCopies int) (*Book, error) {
	if totalCopies < 0 {
		return nil, ErrInvalidCopies
	}
	if title == "" {
		return nil, errors.New("title is required")
	}

	now := s.clock.Now()
	book := &Book{
		ID:              uuid.New(),
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.SaveBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save book: %w", err)
	}
	return book, nil
}

// Get retrieves a book by its ID.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Book, error) {
	return s.store.GetBook(ctx, id)
}

// Search lists books whose title, author or ISBN contains the query.
func (s *service) Search(ctx context.Context, query string) ([]*Book, error) {
	return s.store.ListBooks(ctx, query)
}

// UpdateCopies is the administrative adjustment of a title's total copy
// count. Available copies follow the delta so that the number on loan is
// preserved; the total can never drop below what is currently checked out.
func (s *service) UpdateCopies(ctx context.Context, id uuid.UUID, totalCopies int) (*Book, error) {
	if totalCopies < 0 {
		return nil, ErrInvalidCopies
	}

	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	checkedOut := book.TotalCopies - book.AvailableCopies
	if totalCopies < checkedOut {
		return nil, ErrCopiesCheckedOut
	}

	book.TotalCopies = totalCopies
	book.AvailableCopies = totalCopies - checkedOut
	book.UpdatedAt = s.clock.Now()
	if !book.CopiesConsistent() {
		return nil, ErrInvalidCopies
	}

	if err := s.store.SaveBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save book: %w", err)
	}
	return book, nil
}

// Remove deletes a title from the catalog.
func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteBook(ctx, id)
}
