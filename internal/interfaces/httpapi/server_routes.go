package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("/", handler.NotFound)
}

func registerTournamentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments/upcoming", handler.ListUpcomingTournaments)
	mux.HandleFunc("GET /v1/tournaments/open", handler.ListOpenRegistrationTournaments)
	mux.HandleFunc("GET /v1/tournaments/stats", handler.GetTournamentStats)
	mux.HandleFunc("GET /v1/tournaments/id/{tournamentID}/events", handler.ListTournamentEvents)
	// Slugs contain a slash ("tournament/genesis-10"), hence the wildcard tail.
	mux.HandleFunc("GET /v1/tournaments/{slug...}", handler.GetTournamentBySlug)
	mux.HandleFunc("GET /v1/events/{eventID}/entrants", handler.ListEventEntrants)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("POST /v1/internal/jobs/sync-tournament", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncTournamentJob)))
	mux.Handle("POST /v1/internal/jobs/test-sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunTestSyncJob)))
	mux.Handle("GET /v1/internal/sync/stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncStats)))
	mux.Handle("GET /v1/internal/sync/runs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListSyncRuns)))
}
