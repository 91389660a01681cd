// internal/storage/postgres/borrowers.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libris/internal/borrowers"
	"libris/internal/circulation"
)

func (s *Store) GetBorrower(ctx context.Context, id uuid.UUID) (*borrowers.Borrower, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_borrower",
		trace.WithAttributes(attribute.String("borrower.id", id.String())))
	defer span.End()

	var b borrowers.Borrower
	err := s.db.GetContext(ctx, &b, `
		SELECT id, email, name, is_active, created_at, updated_at
		FROM borrowers
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, borrowers.ErrBorrowerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query borrower: %w", err)
	}
	return &b, nil
}

func (s *Store) GetBorrowerByEmail(ctx context.Context, email string) (*borrowers.Borrower, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_borrower_by_email")
	defer span.End()

	var b borrowers.Borrower
	err := s.db.GetContext(ctx, &b, `
		SELECT id, email, name, is_active, created_at, updated_at
		FROM borrowers
		WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, borrowers.ErrBorrowerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query borrower: %w", err)
	}
	return &b, nil
}

func (s *Store) SaveBorrower(ctx context.Context, b *borrowers.Borrower) error {
	ctx, span := s.tracer.Start(ctx, "store.save_borrower",
		trace.WithAttributes(attribute.String("borrower.id", b.ID.String())))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO borrowers (id, email, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`, b.ID, b.Email, b.Name, b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save borrower: %w", err)
	}
	return nil
}

func (s *Store) ListBorrowers(ctx context.Context) ([]*borrowers.Borrower, error) {
	ctx, span := s.tracer.Start(ctx, "store.list_borrowers")
	defer span.End()

	var out []*borrowers.Borrower
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, email, name, is_active, created_at, updated_at
		FROM borrowers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	return out, nil
}

func (s *Store) GetCredential(ctx context.Context, borrowerID uuid.UUID) (*borrowers.Credential, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_credential")
	defer span.End()

	var c borrowers.Credential
	err := s.db.GetContext(ctx, &c, `
		SELECT borrower_id, password_hash, salt
		FROM credentials
		WHERE borrower_id = $1
	`, borrowerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, borrowers.ErrBorrowerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}
	return &c, nil
}

func (s *Store) SaveCredential(ctx context.Context, c *borrowers.Credential) error {
	ctx, span := s.tracer.Start(ctx, "store.save_credential")
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (borrower_id, password_hash, salt)
		VALUES ($1, $2, $3)
		ON CONFLICT (borrower_id) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			salt = EXCLUDED.salt
	`, c.BorrowerID, c.PasswordHash, c.Salt)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// BorrowerStatus is the circulation-facing eligibility view.
func (s *Store) BorrowerStatus(ctx context.Context, id uuid.UUID) (*circulation.BorrowerInfo, error) {
	ctx, span := s.tracer.Start(ctx, "store.borrower_status",
		trace.WithAttributes(attribute.String("borrower.id", id.String())))
	defer span.End()

	var info circulation.BorrowerInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, is_active FROM borrowers WHERE id = $1
	`, id).Scan(&info.ID, &info.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, circulation.ErrBorrowerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query borrower: %w", err)
	}
	return &info, nil
}

func (s *Store) CountActiveRecords(ctx context.Context, borrowerID uuid.UUID) (int, error) {
	ctx, span := s.tracer.Start(ctx, "store.count_active_records",
		trace.WithAttributes(attribute.String("borrower.id", borrowerID.String())))
	defer span.End()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM borrow_records
		WHERE borrower_id = $1 AND return_date IS NULL
	`, borrowerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active records: %w", err)
	}
	return count, nil
}
