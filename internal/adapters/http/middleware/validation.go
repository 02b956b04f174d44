package middleware

import (
	"net/http"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/binding"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
)

// ValidationGate returns per-route middleware that binds and validates the
// request model before the handler runs.
//
// When the model state is invalid and carries at least one message, the
// joined messages are handed to errs as a *domain.ValidationError, which
// writes a 400 envelope, and the handler never runs. Otherwise the bound
// model is stored in the request context for binding.ModelFromContext.
func ValidationGate[T any](bind binding.Binder[T], errs dto.ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var state binding.ModelState
			model := bind(r, &state)

			if !state.IsValid() {
				if verr := state.Err(); verr != nil && state.Message() != "" {
					errs.WriteError(w, r, verr)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(binding.WithModel(r.Context(), model)))
		})
	}
}
