// internal/storage/postgres/notices.go
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

	"libris/internal/notifications"
)

func (s *Store) GetNotice(ctx context.Context, id uuid.UUID) (*notifications.Notice, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_notice",
		trace.WithAttributes(attribute.String("notice.id", id.String())))
	defer span.End()

	var n notifications.Notice
	err := s.db.GetContext(ctx, &n, `
		SELECT id, borrower_id, record_id, kind, message, created_at, read_at
		FROM notices
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notifications.ErrNoticeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query notice: %w", err)
	}
	return &n, nil
}

func (s *Store) SaveNotice(ctx context.Context, n *notifications.Notice) error {
	ctx, span := s.tracer.Start(ctx, "store.save_notice",
		trace.WithAttributes(attribute.String("notice.id", n.ID.String())))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notices (id, borrower_id, record_id, kind, message, created_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET read_at = EXCLUDED.read_at
	`, n.ID, n.BorrowerID, n.RecordID, n.Kind, n.Message, n.CreatedAt, n.ReadAt)
	if err != nil {
		return fmt.Errorf("failed to save notice: %w", err)
	}
	return nil
}

func (s *Store) ListNotices(ctx context.Context, filter notifications.Filter) ([]*notifications.Notice, error) {
	ctx, span := s.tracer.Start(ctx, "store.list_notices")
	defer span.End()

	clauses := []string{"TRUE"}
	args := []interface{}{}
	if filter.BorrowerID != nil {
		args = append(args, *filter.BorrowerID)
		clauses = append(clauses, fmt.Sprintf("borrower_id = $%d", len(args)))
	}
	if filter.RecordID != nil {
		args = append(args, *filter.RecordID)
		clauses = append(clauses, fmt.Sprintf("record_id = $%d", len(args)))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.UnreadOnly {
		clauses = append(clauses, "read_at IS NULL")
	}

	query := fmt.Sprintf(`
		SELECT id, borrower_id, record_id, kind, message, created_at, read_at
		FROM notices
		WHERE %s
		ORDER BY created_at DESC
	`, strings.Join(clauses, " AND "))

	var out []*notifications.Notice
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	return out, nil
}
