// internal/storage/postgres/fines.go
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

	"libris/internal/fines"
)

func (s *Store) GetFine(ctx context.Context, id uuid.UUID) (*fines.Fine, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_fine",
		trace.WithAttributes(attribute.String("fine.id", id.String())))
	defer span.End()

	var f fines.Fine
	err := s.db.GetContext(ctx, &f, `
		SELECT id, borrow_record_id, amount, reason, status, issue_date, paid_date
		FROM fines
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fines.ErrFineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fine: %w", err)
	}
	return &f, nil
}

func (s *Store) SaveFine(ctx context.Context, fine *fines.Fine) error {
	ctx, span := s.tracer.Start(ctx, "store.save_fine",
		trace.WithAttributes(
			attribute.String("fine.id", fine.ID.String()),
			attribute.String("fine.reason", string(fine.Reason)),
		))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fines (id, borrow_record_id, amount, reason, status, issue_date, paid_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			paid_date = EXCLUDED.paid_date
	`, fine.ID, fine.BorrowRecordID, fine.Amount, fine.Reason, fine.Status, fine.IssueDate, fine.PaidDate)
	if err != nil {
		return fmt.Errorf("failed to save fine: %w", err)
	}
	return nil
}

func (s *Store) DeleteFine(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "store.delete_fine",
		trace.WithAttributes(attribute.String("fine.id", id.String())))
	defer span.End()

	res, err := s.db.ExecContext(ctx, `DELETE FROM fines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fine: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fines.ErrFineNotFound
	}
	return nil
}

func (s *Store) ListFines(ctx context.Context, filter fines.Filter) ([]*fines.Fine, error) {
	ctx, span := s.tracer.Start(ctx, "store.list_fines")
	defer span.End()

	clauses := []string{"TRUE"}
	args := []interface{}{}
	if filter.RecordID != nil {
		args = append(args, *filter.RecordID)
		clauses = append(clauses, fmt.Sprintf("f.borrow_record_id = $%d", len(args)))
	}
	if filter.BorrowerID != nil {
		args = append(args, *filter.BorrowerID)
		clauses = append(clauses, fmt.Sprintf("r.borrower_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("f.status = $%d", len(args)))
	}
	if filter.Reason != nil {
		args = append(args, *filter.Reason)
		clauses = append(clauses, fmt.Sprintf("f.reason = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT f.id, f.borrow_record_id, f.amount, f.reason, f.status, f.issue_date, f.paid_date
		FROM fines f
		JOIN borrow_records r ON r.id = f.borrow_record_id
		WHERE %s
		ORDER BY f.issue_date
	`, strings.Join(clauses, " AND "))

	var out []*fines.Fine
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}
	return out, nil
}
