package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard/official", handler.GetOfficialRanking)
	mux.HandleFunc("GET /v1/clan", handler.GetClanSummary)
	mux.HandleFunc("GET /v1/clans", handler.ListTopClans)
	mux.HandleFunc("GET /v1/games/{id}/members", handler.GetGameLineup)
	mux.HandleFunc("GET /v1/players/{id}/sessions", handler.ListPlayerSessions)
	mux.HandleFunc("GET /v1/backfill", handler.GetBackfillStatus)
	mux.HandleFunc("GET /v1/runs", handler.ListSweepRuns)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/backfill-step", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBackfillStepJob)))
	mux.Handle("POST /v1/internal/jobs/live-sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLiveSweepJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-range", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshRangeJob)))
	// Wipes every aggregate and rewinds the backfill cursor.
	mux.Handle("POST /v1/internal/jobs/reset", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResetJob)))
}
