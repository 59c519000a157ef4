package server

import (
	"net/http"

	"github.com/fllarpy/sampleapp/domain"
	"github.com/fllarpy/sampleapp/internal/ports/http_middleware"
	"github.com/fllarpy/sampleapp/internal/ports/http_reporter"
	"github.com/fllarpy/sampleapp/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Route paths served by NewRouter.
const (
	PathIndex    = "/"
	PathProducts = "/products"
	PathOrder    = "/order"
	PathMetrics  = "/metrics"
	PathDebug    = "/debug/requests"
)

// NewRouter mounts the demo routes and the metrics endpoints. The request
// counter runs before routing, so every request is counted, including /metrics itself
// and requests answered with 404 or 405.
func NewRouter(registry domain.Registry, handlers *service.Handlers, logger zerolog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(http_middleware.CountRequests(registry))

	router.Get(PathIndex, handlers.Index)
	router.Get(PathProducts, handlers.ListProducts)
	router.Post(PathOrder, handlers.CreateOrder)

	router.Method(http.MethodGet, PathMetrics, http_reporter.NewHandler(registry, logger))
	router.Method(http.MethodGet, PathDebug, http_reporter.NewJSONHandler(registry, logger))

	return router
}
