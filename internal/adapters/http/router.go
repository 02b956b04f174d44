// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/binding"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/versioning"
)

// Routes holds everything NewRouter mounts.
type Routes struct {
	Generic   *handlers.GenericHandler
	Health    *handlers.HealthHandler
	Versions  *versioning.Negotiator
	Errors    dto.ErrorWriter
	Validator *binding.Validator
}

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
//
// Versioned routes are served under "/v{version}" and, for clients that
// send the version in a query parameter or header (or rely on the default
// version), without the prefix. Unmatched routes and methods answer with a
// status envelope.
func NewRouter(routes Routes, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteStatus(w, req, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteStatus(w, req, http.StatusMethodNotAllowed)
	})

	// Health endpoints are not versioned.
	r.Get("/health/live", routes.Health.Liveness)
	r.Get("/health/ready", routes.Health.Readiness)

	api := func(r chi.Router) {
		r.Use(routes.Versions.Middleware(routes.Errors))

		r.With(middleware.ValidationGate(
			binding.Query[dto.RetrieveNonceRequest](routes.Validator),
			routes.Errors,
		)).Get("/generic/retrieve", routes.Generic.RetrieveNonce)
	}

	r.Route("/v{version}", api)
	r.Group(api)

	return r
}
