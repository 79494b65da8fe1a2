package port

import (
	"context"

	"github.com/google/uuid"

	"gradus/internal/domain"
)

// NotificationRepository defines the contract for notification
// persistence. MarkRead scopes by recipient so one user can never flip
// another's read state.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, offset, limit int) ([]domain.Notification, int, error)
	ListUnread(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}
