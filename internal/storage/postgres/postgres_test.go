// internal/storage/postgres/postgres_test.go
package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/borrowers"
	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/fines"
)

// setupTestStore attempts to connect to a PostgreSQL database for testing.
// It skips the test if the connection cannot be established.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	pgUser := os.Getenv("PGUSER")
	pgPassword := os.Getenv("PGPASSWORD")
	pgHost := os.Getenv("PGHOST")
	pgPort := os.Getenv("PGPORT")
	pgDB := os.Getenv("PGDATABASE")

	if pgUser == "" {
		pgUser = "user"
	}
	if pgPassword == "" {
		pgPassword = "password"
	}
	if pgHost == "" {
		pgHost = "localhost"
	}
	if pgPort == "" {
		pgPort = "5432"
	}
	if pgDB == "" {
		pgDB = "testdb"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	store, err := Open(dsn)
	if err != nil {
		t.Skipf("skipping postgres tests: could not connect: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func seedBook(t *testing.T, store *Store) *catalog.Book {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	book := &catalog.Book{
		ID:              uuid.New(),
		ISBN:            "978-0134190440",
		Title:           "The Go Programming Language",
		Author:          "Donovan and Kernighan",
		TotalCopies:     3,
		AvailableCopies: 3,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, store.SaveBook(context.Background(), book))
	return book
}

func seedBorrower(t *testing.T, store *Store) *borrowers.Borrower {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	b := &borrowers.Borrower{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Name:      "Test Borrower",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.SaveBorrower(context.Background(), b))
	return b
}

func seedRecord(t *testing.T, store *Store, bookID, borrowerID uuid.UUID) *circulation.BorrowRecord {
	t.Helper()
	borrowDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	record := &circulation.BorrowRecord{
		ID:         uuid.New(),
		BookID:     bookID,
		BorrowerID: borrowerID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, 14),
		Version:    1,
	}
	require.NoError(t, store.SaveRecord(context.Background(), record))
	return record
}

func TestBookRoundtrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	book := seedBook(t, store)

	got, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
	assert.Equal(t, book.TotalCopies, got.TotalCopies)

	got.AvailableCopies = 2
	got.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, store.SaveBook(ctx, got))

	got, err = store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableCopies)

	_, err = store.GetBook(ctx, uuid.New())
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func TestBookCopyCheckConstraint(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	book := seedBook(t, store)
	book.AvailableCopies = book.TotalCopies + 1
	err := store.SaveBook(ctx, book)
	assert.Error(t, err, "available copies above total must be rejected by the schema")
}

func TestBorrowerStatusAndActiveCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	book := seedBook(t, store)
	borrower := seedBorrower(t, store)

	info, err := store.BorrowerStatus(ctx, borrower.ID)
	require.NoError(t, err)
	assert.True(t, info.IsActive)

	open := seedRecord(t, store, book.ID, borrower.ID)
	seedRecord(t, store, book.ID, borrower.ID)

	count, err := store.CountActiveRecords(ctx, borrower.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	returned := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	open.ReturnDate = &returned
	open.Version++
	require.NoError(t, store.SaveRecord(ctx, open))

	count, err = store.CountActiveRecords(ctx, borrower.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveRecordRejectsStaleVersion(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	book := seedBook(t, store)
	borrower := seedBorrower(t, store)
	record := seedRecord(t, store, book.ID, borrower.ID)

	record.Version = 2
	record.RenewalCount = 1
	require.NoError(t, store.SaveRecord(ctx, record))

	stale := *record
	stale.Version = 2
	stale.RenewalCount = 99
	assert.Error(t, store.SaveRecord(ctx, &stale), "writing an already-applied version must fail")

	got, err := store.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RenewalCount)
	assert.Equal(t, 2, got.Version)
}

func TestListRecordsFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	book := seedBook(t, store)
	first := seedBorrower(t, store)
	second := seedBorrower(t, store)

	open := seedRecord(t, store, book.ID, first.ID)
	seedRecord(t, store, book.ID, second.ID)

	closed := seedRecord(t, store, book.ID, first.ID)
	returned := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	closed.ReturnDate = &returned
	closed.Version++
	require.NoError(t, store.SaveRecord(ctx, closed))

	mine, err := store.ListRecords(ctx, circulation.RecordFilter{BorrowerID: &first.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	openOnly, err := store.ListRecords(ctx, circulation.RecordFilter{BorrowerID: &first.ID, OnlyOpen: true})
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, open.ID, openOnly[0].ID)
}

func TestFineUniqueOutstandingOverdue(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	book := seedBook(t, store)
	borrower := seedBorrower(t, store)
	record := seedRecord(t, store, book.ID, borrower.ID)

	issue := func(id uuid.UUID, status fines.Status) error {
		return store.SaveFine(ctx, &fines.Fine{
			ID:             id,
			BorrowRecordID: record.ID,
			Amount:         decimal.RequireFromString("2.50"),
			Reason:         fines.ReasonOverdue,
			Status:         status,
			IssueDate:      time.Now().UTC().Truncate(time.Microsecond),
		})
	}

	require.NoError(t, issue(uuid.New(), fines.StatusOutstanding))
	assert.Error(t, issue(uuid.New(), fines.StatusOutstanding),
		"second outstanding overdue fine for the same record must hit the partial unique index")
}

func TestListFinesByBorrower(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	book := seedBook(t, store)
	borrower := seedBorrower(t, store)
	other := seedBorrower(t, store)

	mine := seedRecord(t, store, book.ID, borrower.ID)
	theirs := seedRecord(t, store, book.ID, other.ID)

	require.NoError(t, store.SaveFine(ctx, &fines.Fine{
		ID:             uuid.New(),
		BorrowRecordID: mine.ID,
		Amount:         decimal.RequireFromString("3.00"),
		Reason:         fines.ReasonDamage,
		Status:         fines.StatusOutstanding,
		IssueDate:      time.Now().UTC(),
	}))
	require.NoError(t, store.SaveFine(ctx, &fines.Fine{
		ID:             uuid.New(),
		BorrowRecordID: theirs.ID,
		Amount:         decimal.RequireFromString("9.00"),
		Reason:         fines.ReasonDamage,
		Status:         fines.StatusOutstanding,
		IssueDate:      time.Now().UTC(),
	}))

	list, err := store.ListFines(ctx, fines.Filter{BorrowerID: &borrower.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "3.00", list[0].Amount.StringFixed(2))
	assert.Equal(t, mine.ID, list[0].BorrowRecordID)
}
