// internal/storage/postgres/records.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libris/internal/circulation"
)

func (s *Store) GetRecord(ctx context.Context, id uuid.UUID) (*circulation.BorrowRecord, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_record",
		trace.WithAttributes(attribute.String("record.id", id.String())))
	defer span.End()

	var r circulation.BorrowRecord
	err := s.db.GetContext(ctx, &r, `
		SELECT id, book_id, borrower_id, borrow_date, due_date, return_date, renewal_count, version
		FROM borrow_records
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, circulation.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return &r, nil
}

// SaveRecord upserts a record. Updates are version-checked: writing an
// already-superseded version fails rather than clobbering a concurrent
// transition.
func (s *Store) SaveRecord(ctx context.Context, record *circulation.BorrowRecord) error {
	ctx, span := s.tracer.Start(ctx, "store.save_record",
		trace.WithAttributes(
			attribute.String("record.id", record.ID.String()),
			attribute.Int("record.version", record.Version),
		))
	defer span.End()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO borrow_records (id, book_id, borrower_id, borrow_date, due_date, return_date, renewal_count, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			due_date = EXCLUDED.due_date,
			return_date = EXCLUDED.return_date,
			renewal_count = EXCLUDED.renewal_count,
			version = EXCLUDED.version
		WHERE borrow_records.version < EXCLUDED.version
	`, record.ID, record.BookID, record.BorrowerID, record.BorrowDate, record.DueDate,
		record.ReturnDate, record.RenewalCount, record.Version)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("concurrent update of record %s: version %d is stale", record.ID, record.Version)
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, filter circulation.RecordFilter) ([]*circulation.BorrowRecord, error) {
	ctx, span := s.tracer.Start(ctx, "store.list_records")
	defer span.End()

	clauses := []string{"TRUE"}
	args := []interface{}{}
	if filter.BorrowerID != nil {
		args = append(args, *filter.BorrowerID)
		clauses = append(clauses, fmt.Sprintf("borrower_id = $%d", len(args)))
	}
	if filter.BookID != nil {
		args = append(args, *filter.BookID)
		clauses = append(clauses, fmt.Sprintf("book_id = $%d", len(args)))
	}
	if filter.OnlyOpen {
		clauses = append(clauses, "return_date IS NULL")
	}

	query := fmt.Sprintf(`
		SELECT id, book_id, borrower_id, borrow_date, due_date, return_date, renewal_count, version
		FROM borrow_records
		WHERE %s
		ORDER BY borrow_date
	`, strings.Join(clauses, " AND "))

	var out []*circulation.BorrowRecord
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return out, nil
}
