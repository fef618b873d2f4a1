package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /health", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	// Browser-facing FPL proxy; the response is the raw joined document.
	mux.HandleFunc("GET /api", handler.GetSportsData)

	mux.HandleFunc("GET /v1/gameweeks", handler.ListGameweeks)
	mux.HandleFunc("GET /v1/gameweeks/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/fixtures", handler.ListFixturesByGameweek)
	mux.HandleFunc("GET /v1/leaderboards/overall", handler.GetOverallLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/gameweeks/{gameweek}", handler.GetGameweekLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/gameweeks/{gameweek}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPrediction)))
	mux.Handle("GET /v1/gameweeks/{gameweek}/predictions/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyGameweekPrediction)))
	mux.Handle("GET /v1/predictions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("GET /v1/leaderboards/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyLeaderboardBreakdown)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResultSyncJob)))
}
