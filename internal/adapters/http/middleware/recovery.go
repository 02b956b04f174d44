package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/core-api/internal/platform/logging"
)

// PanicError is a recovered panic. It carries the panic value and the stack
// of the goroutine that panicked, and is classified as an unexpected failure.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Trace returns the stack captured when the panic was recovered.
func (e *PanicError) Trace() string {
	return string(e.Stack)
}

// newPanicError wraps a recovered value, keeping an existing *PanicError
// (re-raised by Timeout from the handler goroutine) intact.
func newPanicError(v any) *PanicError {
	if pe, ok := v.(*PanicError); ok {
		return pe
	}
	return &PanicError{Value: v, Stack: debug.Stack()}
}

// Recovery returns middleware that recovers from panics in downstream
// handlers and hands them to errs as a *PanicError, which logs once and
// writes a 500 envelope. If the response headers have already been written,
// only the log entry is emitted. http.ErrAbortHandler is re-panicked so the
// server can abort the connection.
func Recovery(errs dto.ErrorWriter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
					panic(v)
				}

				perr := newPanicError(v)
				if rw.headerWritten {
					logging.FromContextOr(r.Context(), logger).ErrorContext(r.Context(), "panic recovered after response started",
						slog.String("panic", fmt.Sprint(perr.Value)),
						slog.String("stack", perr.Trace()),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					return
				}

				errs.WriteError(rw, r, perr)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
