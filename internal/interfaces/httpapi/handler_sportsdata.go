package httpapi

import (
	"net/http"
)

const sportsDataErrorMessage = "Something went wrong fetching FPL data."

// GetSportsData serves the joined FPL fixtures and bootstrap documents
// without the response envelope.
func (h *Handler) GetSportsData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSportsData")
	defer span.End()

	payload, err := h.sportsDataService.FetchJoined(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "fetch sports data failed", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": sportsDataErrorMessage})
		return
	}

	writeJSON(ctx, w, http.StatusOK, payload)
}
