package httpapi

import "net/http"

func (h *Handler) RunStatusSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStatusSweepJob")
	defer span.End()

	result, err := h.sweepService.SweepMatchStatuses(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "status sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusSweepDTO{
		WentLive: result.WentLive,
		Finished: result.Finished,
		Settled:  result.Settled,
		Failed:   result.Failed,
	})
}

func (h *Handler) RunSettlementSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettlementSweepJob")
	defer span.End()

	result, err := h.sweepService.SweepUnsettled(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "settlement sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusSweepDTO{
		Settled: result.Settled,
		Failed:  result.Failed,
	})
}

func (h *Handler) RunLeagueSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLeagueSweepJob")
	defer span.End()

	result, err := h.sweepService.SweepFinishedLeagues(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "league sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueSweepDTO{
		Processed: result.Processed,
		Awards:    result.Awards,
		Failed:    result.Failed,
	})
}
