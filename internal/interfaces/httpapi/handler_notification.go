package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/scorecast/scorecast/internal/usecase"
)

func (h *Handler) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyNotifications")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	unreadOnly := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("unread")), "true")
	notifications, err := h.notificationService.List(ctx, principal.UserID, unreadOnly)
	if err != nil {
		h.logger.WarnContext(ctx, "list notifications failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]notificationDTO, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationToDTO(ctx, n))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkNotificationRead")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	notificationID := strings.TrimSpace(r.PathValue("notificationID"))

	if err := h.notificationService.MarkRead(ctx, notificationID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "mark notification read failed", "user_id", principal.UserID, "notification_id", notificationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkAllNotificationsRead")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	updated, err := h.notificationService.MarkAllRead(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "mark all notifications read failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"updated": updated})
}
