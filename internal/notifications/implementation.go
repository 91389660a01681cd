// internal/notifications/implementation.go
package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"libris/internal/circulation"
	"libris/internal/policy"
	"libris/pkg/clock"
)

// service implements the Service interface.
type service struct {
	store   Store
	records circulation.RecordStore
	config  policy.Provider
	clock   clock.Clock
}

// NewService creates a new notification service instance.
func NewService(store Store, records circulation.RecordStore, config policy.Provider, clk clock.Clock) Service {
	return &service{store: store, records: records, config: config, clock: clk}
}

// Generate walks the open records and creates a notice for each record
// that is overdue or due within the reservation hold period. A record gets
// at most one unread notice per kind, so repeated passes are idempotent.
func (s *service) Generate(ctx context.Context) ([]*Notice, error) {
	cfg := s.config.Current()
	now := s.clock.Now()

	open, err := s.records.ListRecords(ctx, circulation.RecordFilter{OnlyOpen: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list open records: %w", err)
	}

	var created []*Notice
	for _, record := range open {
		var kind Kind
		var message string

		switch {
		case policy.OverdueDays(record.DueDate, now) > 0:
			kind = KindOverdue
			message = fmt.Sprintf("Your borrowed item is %d day(s) overdue. Please return it to avoid further fines.",
				policy.OverdueDays(record.DueDate, now))
		case policy.DueWithin(record.DueDate, now, cfg.ReservationHoldPeriod):
			kind = KindDueSoon
			message = fmt.Sprintf("Your borrowed item is due on %s.", record.DueDate.Format("2006-01-02"))
		default:
			continue
		}

		exists, err := s.hasUnread(ctx, record.ID, kind)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		notice := &Notice{
			ID:         uuid.New(),
			BorrowerID: record.BorrowerID,
			RecordID:   record.ID,
			Kind:       kind,
			Message:    message,
			CreatedAt:  now,
		}
		if err := s.store.SaveNotice(ctx, notice); err != nil {
			return nil, fmt.Errorf("failed to save notice: %w", err)
		}
		created = append(created, notice)
	}

	return created, nil
}

func (s *service) hasUnread(ctx context.Context, recordID uuid.UUID, kind Kind) (bool, error) {
	existing, err := s.store.ListNotices(ctx, Filter{
		RecordID:   &recordID,
		Kind:       &kind,
		UnreadOnly: true,
	})
	if err != nil {
		return false, fmt.Errorf("failed to list notices: %w", err)
	}
	return len(existing) > 0, nil
}

// List returns a borrower's notices.
func (s *service) List(ctx context.Context, borrowerID uuid.UUID, unreadOnly bool) ([]*Notice, error) {
	return s.store.ListNotices(ctx, Filter{BorrowerID: &borrowerID, UnreadOnly: unreadOnly})
}

// UnreadCount returns the number of unread notices for a borrower.
func (s *service) UnreadCount(ctx context.Context, borrowerID uuid.UUID) (int, error) {
	list, err := s.store.ListNotices(ctx, Filter{BorrowerID: &borrowerID, UnreadOnly: true})
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// MarkRead marks a single notice as read.
func (s *service) MarkRead(ctx context.Context, id uuid.UUID) (*Notice, error) {
	notice, err := s.store.GetNotice(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice.Unread() {
		now := s.clock.Now()
		notice.ReadAt = &now
		if err := s.store.SaveNotice(ctx, notice); err != nil {
			return nil, fmt.Errorf("failed to save notice: %w", err)
		}
	}
	return notice, nil
}

// MarkAllRead marks every unread notice of a borrower as read.
func (s *service) MarkAllRead(ctx context.Context, borrowerID uuid.UUID) error {
	unread, err := s.store.ListNotices(ctx, Filter{BorrowerID: &borrowerID, UnreadOnly: true})
	if err != nil {
		return err
	}

	now := s.clock.Now()
	for _, notice := range unread {
		notice.ReadAt = &now
		if err := s.store.SaveNotice(ctx, notice); err != nil {
			return fmt.Errorf("failed to save notice: %w", err)
		}
	}
	return nil
}
