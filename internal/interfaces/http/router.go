// Package http exposes the derivative service as a small JSON API on chi.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/internal/interfaces/http/handlers"
	"github.com/turtacn/dockprep/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil members are skipped.
type RouterConfig struct {
	// Handlers
	DerivativeHandler *handlers.DerivativeHandler
	HealthHandler     *handlers.HealthHandler

	// Middleware
	RateLimiter middleware.RateLimiter
	Logging     *middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

// NewRouter constructs the complete HTTP route tree from the given
// configuration.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.Metrics != nil {
		r.Use(middleware.RequestMetrics(cfg.Metrics))
	}
	if cfg.Logger != nil {
		logCfg := middleware.DefaultLoggingConfig()
		if cfg.Logging != nil {
			logCfg = *cfg.Logging
		}
		r.Use(middleware.RequestLogging(cfg.Logger, logCfg))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, middleware.DefaultRateLimitConfig()))
	}

	// --- Health ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	// --- API v1 ---
	if cfg.DerivativeHandler != nil {
		r.Route("/v1", func(api chi.Router) {
			registerDerivativeRoutes(api, cfg.DerivativeHandler)
		})
	}

	return r
}

// registerDerivativeRoutes mounts the expansion endpoints.
func registerDerivativeRoutes(r chi.Router, h *handlers.DerivativeHandler) {
	r.Route("/derivatives", func(dr chi.Router) {
		dr.Post("/expand", h.Expand)
		dr.Post("/count", h.Count)
	})
	r.Post("/templates/classify", h.Classify)
	r.Get("/substituents", h.Substituents)
}

//Personal.AI order the ending
