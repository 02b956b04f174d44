package middleware

import (
	"net/http"
	"slices"
)

// Chain composes middlewares into one. The first argument is the outermost:
// Chain(a, b)(h) serves as a(b(h)).
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for _, mw := range slices.Backward(middlewares) {
			handler = mw(handler)
		}
		return handler
	}
}
