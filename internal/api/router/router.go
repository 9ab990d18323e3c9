package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pratik-mahalle/d9sync/internal/api/handlers"
	"github.com/pratik-mahalle/d9sync/internal/api/middleware"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
	"github.com/pratik-mahalle/d9sync/internal/pkg/metrics"
)

// New builds the status server routes: probes, run status and metrics
func New(log *logger.Logger, health *handlers.HealthHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RateLimit(10, 20))
	r.Use(chimiddleware.GetHead)

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/status", health.Status)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return r
}
