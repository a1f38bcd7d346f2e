package httpapi

import (
	"fmt"
	"net/http"

	"github.com/scorecast/scorecast/internal/usecase"
)

func (h *Handler) ListAchievementCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAchievementCatalog")
	defer span.End()

	catalog, err := h.achievementService.Catalog(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list achievement catalog failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]achievementDTO, 0, len(catalog))
	for _, a := range catalog {
		items = append(items, achievementToDTO(ctx, a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyAchievements")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	grants, err := h.achievementService.ListUserGrants(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user achievements failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]achievementGrantDTO, 0, len(grants))
	for _, g := range grants {
		items = append(items, achievementGrantToDTO(ctx, g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
