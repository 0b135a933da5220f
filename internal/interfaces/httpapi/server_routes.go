package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// {userID} accepts "me" for the configured default user.
func registerInsightRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/users/{userID}/leagues", handler.DiscoverLeagues)
	mux.HandleFunc("GET /v1/users/{userID}/rosters/analysis", handler.AnalyzeRosters)
	mux.HandleFunc("GET /v1/users/{userID}/matchups", handler.MatchupPriorities)
	mux.HandleFunc("GET /v1/users/{userID}/waivers", handler.WaiverTargets)
}

func registerCacheRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/cache", handler.CacheStatus)
	mux.HandleFunc("POST /v1/cache/refresh", handler.RefreshCache)
	mux.HandleFunc("POST /v1/cache/clear", handler.ClearCache)
}
