package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/scorecast/scorecast/internal/domain/notification"
)

// NotificationService exposes each user's in-app notification feed.
type NotificationService struct {
	notificationRepo notification.Repository
}

func NewNotificationService(notificationRepo notification.Repository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "NotificationService.List")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	items, err := s.notificationRepo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "NotificationService.MarkRead")
	defer span.End()

	notificationID = strings.TrimSpace(notificationID)
	userID = strings.TrimSpace(userID)
	if notificationID == "" || userID == "" {
		return fmt.Errorf("%w: notification id and user id are required", ErrInvalidInput)
	}
	found, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: notification %s", ErrNotFound, notificationID)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "NotificationService.MarkAllRead")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	count, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return count, nil
}
