package api

import (
	"net/http"

	"shot-history-api/internal/api/handlers"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires HTTP routes to handlers. metrics may be nil.
func NewRouter(sh *handlers.ShotHandler, st *handlers.SettingsHandler, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handlers.Health)
	mux.Handle("/api/shots", sh)
	mux.Handle("/api/shots/", sh)
	mux.Handle("/api/settings", st)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	// Swagger UI at /swagger/index.html
	mux.HandleFunc("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}
