package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/vidfetch/internal/api/handler"
	mw "github.com/iconidentify/vidfetch/internal/api/middleware"
	"github.com/iconidentify/vidfetch/internal/config"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	mediaHandler *handler.MediaHandler,
	healthHandler *handler.HealthHandler,
	indexHandler *handler.IndexHandler,
	cfg config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/", indexHandler.Index)

	r.Route("/api", func(r chi.Router) {
		// Health stays reachable without a key and outside the limits.
		r.Get("/health", healthHandler.Health)

		r.Group(func(r chi.Router) {
			if cfg.Server.APIKey != "" {
				r.Use(mw.APIKeyAuth(cfg.Server.APIKey))
			}
			r.Use(mw.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

			r.Get("/formats", mediaHandler.Formats)
			r.Post("/validate", mediaHandler.Validate)

			r.Group(func(r chi.Router) {
				r.Use(mw.MaxInFlight(cfg.Server.Workers))
				r.Post("/info", mediaHandler.Info)
				r.Post("/download", mediaHandler.Download)
			})
		})
	})

	return r
}
