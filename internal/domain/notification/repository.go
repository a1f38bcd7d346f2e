package notification

import "context"

// Repository describes notification persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}
