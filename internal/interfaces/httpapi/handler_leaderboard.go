package httpapi

import (
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/domain/leaderboard"
)

func (h *Handler) GetOverallLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverallLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.Overall(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "overall leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		Mode:    leaderboard.ModeOverall,
		Entries: entries,
	})
}

func (h *Handler) GetGameweekLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekLeaderboard")
	defer span.End()

	gw, err := gameweekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.Gameweek(ctx, gw)
	if err != nil {
		h.logger.ErrorContext(ctx, "gameweek leaderboard failed", "gameweek", gw, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		Mode:     leaderboard.ModeSingleGameweek,
		Gameweek: gw,
		Entries:  entries,
	})
}

func (h *Handler) GetMyLeaderboardBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyLeaderboardBreakdown")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	breakdown, err := h.leaderboardService.UserBreakdown(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard breakdown failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, breakdown)
}
