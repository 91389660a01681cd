// internal/storage/postgres/store.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Store implements every persistence contract in the system on top of
// PostgreSQL. Each operation runs in its own span.
type Store struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("libris/storage/postgres"),
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return NewStore(db), nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id               UUID PRIMARY KEY,
	isbn             TEXT NOT NULL DEFAULT '',
	title            TEXT NOT NULL,
	author           TEXT NOT NULL DEFAULT '',
	total_copies     INT NOT NULL,
	available_copies INT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	CHECK (available_copies >= 0 AND available_copies <= total_copies)
);

CREATE TABLE IF NOT EXISTS borrowers (
	id         UUID PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS credentials (
	borrower_id   UUID PRIMARY KEY REFERENCES borrowers(id),
	password_hash TEXT NOT NULL,
	salt          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS borrow_records (
	id            UUID PRIMARY KEY,
	book_id       UUID NOT NULL REFERENCES books(id),
	borrower_id   UUID NOT NULL REFERENCES borrowers(id),
	borrow_date   TIMESTAMPTZ NOT NULL,
	due_date      TIMESTAMPTZ NOT NULL,
	return_date   TIMESTAMPTZ,
	renewal_count INT NOT NULL DEFAULT 0,
	version       INT NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS borrow_records_borrower_open
	ON borrow_records (borrower_id) WHERE return_date IS NULL;

CREATE TABLE IF NOT EXISTS fines (
	id               UUID PRIMARY KEY,
	borrow_record_id UUID NOT NULL REFERENCES borrow_records(id),
	amount           NUMERIC(10,2) NOT NULL CHECK (amount >= 0),
	reason           TEXT NOT NULL,
	status           TEXT NOT NULL,
	issue_date       TIMESTAMPTZ NOT NULL,
	paid_date        TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS fines_one_outstanding_overdue
	ON fines (borrow_record_id) WHERE reason = 'OVERDUE' AND status = 'OUTSTANDING';

CREATE TABLE IF NOT EXISTS notices (
	id          UUID PRIMARY KEY,
	borrower_id UUID NOT NULL REFERENCES borrowers(id),
	record_id   UUID NOT NULL REFERENCES borrow_records(id),
	kind        TEXT NOT NULL,
	message     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	read_at     TIMESTAMPTZ
);
`

// EnsureSchema creates the tables if they do not exist. The check
// constraints and the partial unique index back the copy-count and
// single-outstanding-fine invariants at the storage boundary.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
