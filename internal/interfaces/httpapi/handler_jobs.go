package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/usecase"
)

func (h *Handler) RunResultSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResultSyncJob")
	defer span.End()

	if h.resultSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: result sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.resultSyncService.Sync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run result sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
