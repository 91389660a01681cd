// internal/storage/postgres/books.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libris/internal/catalog"
)

func (s *Store) GetBook(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_book",
		trace.WithAttributes(attribute.String("book.id", id.String())))
	defer span.End()

	var book catalog.Book
	err := s.db.GetContext(ctx, &book, `
		SELECT id, isbn, title, author, total_copies, available_copies, created_at, updated_at
		FROM books
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	return &book, nil
}

func (s *Store) SaveBook(ctx context.Context, book *catalog.Book) error {
	ctx, span := s.tracer.Start(ctx, "store.save_book",
		trace.WithAttributes(attribute.String("book.id", book.ID.String())))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, isbn, title, author, total_copies, available_copies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			isbn = EXCLUDED.isbn,
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			total_copies = EXCLUDED.total_copies,
			available_copies = EXCLUDED.available_copies,
			updated_at = EXCLUDED.updated_at
	`, book.ID, book.ISBN, book.Title, book.Author, book.TotalCopies, book.AvailableCopies,
		book.CreatedAt, book.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}
	return nil
}

func (s *Store) ListBooks(ctx context.Context, query string) ([]*catalog.Book, error) {
	ctx, span := s.tracer.Start(ctx, "store.list_books")
	defer span.End()

	var books []*catalog.Book
	err := s.db.SelectContext(ctx, &books, `
		SELECT id, isbn, title, author, total_copies, available_copies, created_at, updated_at
		FROM books
		WHERE $1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%' OR isbn ILIKE '%' || $1 || '%'
		ORDER BY title
	`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *Store) DeleteBook(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "store.delete_book",
		trace.WithAttributes(attribute.String("book.id", id.String())))
	defer span.End()

	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrBookNotFound
	}
	return nil
}
