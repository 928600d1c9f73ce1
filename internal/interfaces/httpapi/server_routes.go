package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /api/debug-env", handler.DebugEnv)
}

func registerAPIRoutes(mux *http.ServeMux, handler *Handler, cronSecret string) {
	mux.HandleFunc("POST /api/chat", handler.Chat)
	mux.HandleFunc("POST /api/sync/players", handler.SyncPlayers)
	mux.Handle("GET /api/cron/update-stats", RequireCronSecret(cronSecret, http.HandlerFunc(handler.UpdateStats)))
}
