package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter wires the REST surface: telemetry ingestion, trip analysis,
// report history, plus health and Prometheus metrics.
func NewRouter(h *Handlers, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/ingest", h.handleIngest).Methods(http.MethodPost)
	api.HandleFunc("/analyze/{trip_id}", h.handleAnalyze).Methods(http.MethodGet)
	api.HandleFunc("/reports/{vehicle_id}", h.handleListReports).Methods(http.MethodGet)

	r.Use(loggingMiddleware(log))
	r.Use(jsonMiddleware)
	return r
}

func loggingMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug().Str("method", r.Method).Str("path", r.URL.Path).
				Dur("elapsed", time.Since(start)).Msg("request")
		})
	}
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
