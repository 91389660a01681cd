// internal/catalog/implementation_test.go
package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/catalog"
	"libris/internal/storage/memory"
	"libris/pkg/clock"
)

func newService(t *testing.T) (catalog.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return catalog.NewService(store, clk), store
}

func TestAddBook(t *testing.T) {
	svc, _ := newService(t)

	book, err := svc.Add(context.Background(), "9780134190440", "The Go Programming Language", "Donovan", 4)
	require.NoError(t, err)

	assert.Equal(t, 4, book.TotalCopies)
	assert.Equal(t, 4, book.AvailableCopies, "all copies start available")

	got, err := svc.Get(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
}

func TestAddRequiresTitle(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Add(context.Background(), "", "", "", 1)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Add(context.Background(), "9780141439518", "Pride and Prejudice", "Jane Austen", 2)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "9780134190440", "The Go Programming Language", "Donovan", 1)
	require.NoError(t, err)

	hits, err := svc.Search(context.Background(), "austen")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Pride and Prejudice", hits[0].Title)

	all, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateCopiesPreservesLoans(t *testing.T) {
	svc, store := newService(t)

	book, err := svc.Add(context.Background(), "x", "Some Title", "A", 5)
	require.NoError(t, err)

	// Simulate two copies on loan.
	book.AvailableCopies = 3
	require.NoError(t, store.SaveBook(context.Background(), book))

	updated, err := svc.UpdateCopies(context.Background(), book.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.TotalCopies)
	assert.Equal(t, 8, updated.AvailableCopies, "two copies stay on loan")
}

func TestUpdateCopiesCannotDropBelowLoans(t *testing.T) {
	svc, store := newService(t)

	book, err := svc.Add(context.Background(), "x", "Some Title", "A", 5)
	require.NoError(t, err)
	book.AvailableCopies = 2 // three on loan
	require.NoError(t, store.SaveBook(context.Background(), book))

	_, err = svc.UpdateCopies(context.Background(), book.ID, 2)
	assert.ErrorIs(t, err, catalog.ErrCopiesCheckedOut)
}

func TestRemove(t *testing.T) {
	svc, _ := newService(t)

	book, err := svc.Add(context.Background(), "x", "Some Title", "A", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), book.ID))

	_, err = svc.Get(context.Background(), book.ID)
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)

	err = svc.Remove(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}
