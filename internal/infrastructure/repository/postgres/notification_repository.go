package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scorecast/scorecast/internal/domain/notification"
	qb "github.com/scorecast/scorecast/internal/platform/querybuilder"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	insertModel := notificationInsertModel{
		PublicID:  n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	query, args, err := qb.InsertModel("notifications", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create notification query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	builder := qb.Select("*").From("notifications").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "public_id")
	if unreadOnly {
		builder = builder.Where(qb.Eq("read", false))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) (bool, error) {
	query, args, err := qb.Update("notifications").
		Set("read", true).
		Where(
			qb.Eq("public_id", notificationID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark notification read query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected mark notification read: %w", err)
	}
	return affected > 0, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	query, args, err := qb.Update("notifications").
		Set("read", true).
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("read", false),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build mark all notifications read query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected mark all notifications read: %w", err)
	}
	return int(affected), nil
}
