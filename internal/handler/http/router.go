package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/naranjargal/search-service/internal/service"
	"github.com/naranjargal/search-service/internal/session"
	"github.com/naranjargal/search-service/pkg/health"
	"github.com/naranjargal/search-service/pkg/middleware"
)

// NewRouter creates a chi router with all search service routes registered.
func NewRouter(
	searchService *service.SearchService,
	registry *session.Registry,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Tracing("search"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("search"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Search API endpoints
	searchHandler := NewSearchHandler(searchService, registry, logger)

	r.Route("/api/v1/search", func(r chi.Router) {
		r.Get("/preview", searchHandler.Preview)

		r.Route("/session/{id}", func(r chi.Router) {
			r.Get("/", searchHandler.GetSession)
			r.Get("/progress", searchHandler.Progress)

			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)
				r.Post("/reset", searchHandler.ResetSession)
				r.Post("/visibility", searchHandler.Visibility)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/submit", searchHandler.Submit)
		})
	})

	return r
}
