// internal/notifications/service.go
package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoticeNotFound is returned when the notice does not exist.
var ErrNoticeNotFound = errors.New("notice not found")

// Service defines the interface for the notification component.
type Service interface {
	// Generate derives due-soon and overdue notices for all open records
	// and returns the notices created by this pass.
	Generate(ctx context.Context) ([]*Notice, error)
	// List returns a borrower's notices, newest first.
	List(ctx context.Context, borrowerID uuid.UUID, unreadOnly bool) ([]*Notice, error)
	UnreadCount(ctx context.Context, borrowerID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Notice, error)
	MarkAllRead(ctx context.Context, borrowerID uuid.UUID) error
}

// Store is the persistence contract for notices.
type Store interface {
	GetNotice(ctx context.Context, id uuid.UUID) (*Notice, error)
	SaveNotice(ctx context.Context, n *Notice) error
	ListNotices(ctx context.Context, filter Filter) ([]*Notice, error)
}
