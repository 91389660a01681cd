// internal/notifications/implementation_test.go
package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/circulation"
	"libris/internal/notifications"
	"libris/internal/policy"
	"libris/internal/storage/memory"
	"libris/pkg/clock"
)

type fixture struct {
	store *memory.Store
	clock *clock.Fixed
	svc   notifications.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFixed(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	return &fixture{
		store: store,
		clock: clk,
		svc:   notifications.NewService(store, store, policy.NewResolver(), clk),
	}
}

func (f *fixture) seedRecord(t *testing.T, due time.Time, returned bool) *circulation.BorrowRecord {
	t.Helper()
	record := &circulation.BorrowRecord{
		ID:         uuid.New(),
		BookID:     uuid.New(),
		BorrowerID: uuid.New(),
		BorrowDate: due.AddDate(0, 0, -14),
		DueDate:    due,
		Version:    1,
	}
	if returned {
		rd := due
		record.ReturnDate = &rd
	}
	require.NoError(t, f.store.SaveRecord(context.Background(), record))
	return record
}

func TestGenerateDueSoonAndOverdue(t *testing.T) {
	f := newFixture(t)

	// Due in 2 days: within the default 3-day hold period.
	dueSoon := f.seedRecord(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), false)
	// Overdue by 4 days.
	overdue := f.seedRecord(t, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC), false)
	// Due far in the future: no notice.
	f.seedRecord(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), false)
	// Returned: no notice even though the due date passed.
	f.seedRecord(t, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), true)

	created, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 2)

	kinds := map[uuid.UUID]notifications.Kind{}
	for _, n := range created {
		kinds[n.RecordID] = n.Kind
	}
	assert.Equal(t, notifications.KindDueSoon, kinds[dueSoon.ID])
	assert.Equal(t, notifications.KindOverdue, kinds[overdue.ID])
}

func TestGenerateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC), false)

	first, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second, "an unread notice of the same kind suppresses a new one")
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	f := newFixture(t)
	record := f.seedRecord(t, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC), false)

	created, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 1)

	count, err := f.svc.UnreadCount(context.Background(), record.BorrowerID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	notice, err := f.svc.MarkRead(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.False(t, notice.Unread())

	count, err = f.svc.UnreadCount(context.Background(), record.BorrowerID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkAllRead(t *testing.T) {
	f := newFixture(t)
	borrowerID := uuid.New()

	for i := 0; i < 3; i++ {
		record := f.seedRecord(t, time.Date(2025, 2, 20+i, 0, 0, 0, 0, time.UTC), false)
		record.BorrowerID = borrowerID
		require.NoError(t, f.store.SaveRecord(context.Background(), record))
	}

	_, err := f.svc.Generate(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkAllRead(context.Background(), borrowerID))

	count, err := f.svc.UnreadCount(context.Background(), borrowerID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkReadUnknownNotice(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.MarkRead(context.Background(), uuid.New())
	assert.ErrorIs(t, err, notifications.ErrNoticeNotFound)
}
