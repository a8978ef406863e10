package server

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Handler builds the routed handler with the full middleware chain:
// request ID, then panic recovery, then CORS, then tracing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/stats", s.statsHandler)

	var h http.Handler = mux
	h = s.om.HTTPMiddleware()(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins: s.AppConfig.Server.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         s.AppConfig.Server.CORS.MaxAge,
	})(h)
	h = s.recoverMiddleware(h)
	h = s.requestIDMiddleware(h)
	return h
}
