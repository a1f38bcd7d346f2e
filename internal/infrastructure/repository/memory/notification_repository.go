package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scorecast/scorecast/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]notification.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[n.ID]; exists {
		return duplicateError("notifications_pkey")
	}
	r.items[n.ID] = n
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, n := range r.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	// Newest first, the order a feed shows them.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, notificationID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.items[notificationID]
	if !exists || n.UserID != userID {
		return false, nil
	}
	n.Read = true
	r.items[notificationID] = n
	return true, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, n := range r.items {
		if n.UserID != userID || n.Read {
			continue
		}
		n.Read = true
		r.items[id] = n
		count++
	}
	return count, nil
}
