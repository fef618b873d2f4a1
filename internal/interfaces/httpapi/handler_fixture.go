package httpapi

import (
	"net/http"
)

func (h *Handler) ListGameweeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameweeks")
	defer span.End()

	items, err := h.fixtureService.ListGameweeks(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list gameweeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	now := h.now()
	out := make([]gameweekDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameweekToDTO(item, now))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentGameweek")
	defer span.End()

	item, err := h.fixtureService.CurrentGameweek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(item, h.now()))
}

func (h *Handler) ListFixturesByGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByGameweek")
	defer span.End()

	gw, err := gameweekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fixtureService.ListByGameweek(ctx, gw)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "gameweek", gw, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
