// Package httpapi assembles the HTTP surface: public catalogue and health
// endpoints, and the reviewer-authenticated certification routes.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assessmenthandler "certus/internal/assessment/handler"
	cataloghandler "certus/internal/catalog/handler"
	decisionhandler "certus/internal/decision/handler"
	profilehandler "certus/internal/profile/handler"
	"certus/pkg/platform/middleware/auth"
	"certus/pkg/platform/middleware/requestmeta"
)

// Deps carries the wired handlers and middleware inputs for the router.
type Deps struct {
	Catalog    *cataloghandler.Handler
	Profile    *profilehandler.Handler
	Assessment *assessmenthandler.Handler
	Decision   *decisionhandler.Handler

	TokenValidator auth.TokenValidator
	Logger         *slog.Logger

	// Health reports readiness of backing stores; nil means always healthy.
	Health func() error
}

// NewRouter wires all endpoints. Everything under /profiles requires a
// reviewer token; the catalogue, health, and metrics endpoints are public.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestmeta.Middleware)

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	deps.Catalog.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireReviewer(deps.TokenValidator, deps.Logger))
		deps.Profile.Register(r)
		deps.Assessment.Register(r)
		deps.Decision.Register(r)
	})

	return r
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
