package dto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/core-api/internal/domain"
	"github.com/jsamuelsen11/core-api/internal/platform/logging"
	"github.com/jsamuelsen11/core-api/internal/platform/telemetry"
)

// errNilFailure stands in for a nil error, typed or untyped, handed to the
// classifier.
var errNilFailure = errors.New("unknown failure")

// ClassifiedError is the outcome of classifying a failure.
type ClassifiedError struct {
	Kind       Kind
	HTTPStatus int
	// InternalDetail is "<error> | <trace>". It is logged, and shown to
	// clients only in development.
	InternalDetail string
	// UserMessage is the client-facing status.message.
	UserMessage string
}

// tracer is implemented by failures that carry their own stack, such as
// recovered panics.
type tracer interface {
	Trace() string
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// ErrorWriter writes the error envelope for a failure. *Classifier is the
// production implementation; middleware and handlers depend on this
// interface.
type ErrorWriter interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

var _ ErrorWriter = (*Classifier)(nil)

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithMetrics counts classified failures by kind.
func WithMetrics(m *telemetry.Metrics) ClassifierOption {
	return func(c *Classifier) {
		c.metrics = m
	}
}

// Classifier turns any failure into exactly one log record and one error
// envelope. It is the single place where error-to-response policy lives.
// A Classifier is safe for concurrent use.
type Classifier struct {
	isDevelopment bool
	logger        *slog.Logger
	metrics       *telemetry.Metrics
}

// NewClassifier creates a Classifier. isDevelopment is read once here and
// controls whether unexpected failures expose their detail to clients.
func NewClassifier(isDevelopment bool, logger *slog.Logger, opts ...ClassifierOption) *Classifier {
	c := &Classifier{isDevelopment: isDevelopment, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify logs err and returns its classification with the envelope to
// send. Classification is a pure function of err and the development flag.
func (c *Classifier) Classify(ctx context.Context, err error) (ClassifiedError, Envelope[any]) {
	if isNil(err) {
		err = errNilFailure
	}

	ce := c.classify(err)

	c.log(ctx, err, ce)
	c.record(ctx, ce)

	return ce, NewError(statusCode(ce.HTTPStatus), ce.UserMessage)
}

// WriteError classifies err and writes the resulting envelope.
func (c *Classifier) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	_, env := c.Classify(r.Context(), err)
	WriteEnvelope(w, r, env)
}

func (c *Classifier) classify(err error) ClassifiedError {
	detail := Detail(err)

	switch cause := classifiedCause(err).(type) {
	case versionFailure:
		status, env := NewVersionErrorEnvelope(cause)
		return ClassifiedError{
			Kind:           KindVersionNegotiation,
			HTTPStatus:     status,
			InternalDetail: detail,
			UserMessage:    env.Message(),
		}
	case *domain.ValidationError:
		if msg := cause.Message(); msg != "" {
			return ClassifiedError{
				Kind:           KindValidation,
				HTTPStatus:     http.StatusBadRequest,
				InternalDetail: detail,
				UserMessage:    msg,
			}
		}
	case domain.Error:
		if validErrorStatus(cause.StatusCode()) {
			return ClassifiedError{
				Kind:           KindDomain,
				HTTPStatus:     cause.StatusCode(),
				InternalDetail: detail,
				UserMessage:    cause.UserMessage(),
			}
		}
	}

	msg := GenericErrorMessage
	if c.isDevelopment {
		msg = detail
	}
	return ClassifiedError{
		Kind:           KindUnexpected,
		HTTPStatus:     http.StatusInternalServerError,
		InternalDetail: detail,
		UserMessage:    msg,
	}
}

// classifiedCause returns the outermost failure in err's tree, visited in
// errors.As order, that carries its own classification: a version failure,
// a validation error or a domain error. Whatever it wraps is internal
// detail. A nil result means the failure is unexpected.
func classifiedCause(err error) error {
	for !isNil(err) {
		switch err.(type) {
		case versionFailure, *domain.ValidationError, domain.Error:
			return err
		}

		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				if found := classifiedCause(e); found != nil {
					return found
				}
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}

// isNil reports whether v is an interface holding a nil pointer, such as
// a (*domain.StatusError)(nil) returned through an error result.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// log emits the single record for a classified failure. Logging never
// prevents the response from being written.
func (c *Classifier) log(ctx context.Context, err error, ce ClassifiedError) {
	defer func() {
		_ = recover()
	}()

	attrs := []slog.Attr{
		slog.String("kind", ce.Kind.String()),
		slog.Int("status", ce.HTTPStatus),
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.Any("error", err),
	}
	if ce.Kind == KindUnexpected {
		attrs = append(attrs, slog.String("detail", ce.InternalDetail))
	}

	logging.FromContextOr(ctx, c.logger).LogAttrs(ctx, ce.Kind.logLevel(), "request failed", attrs...)
}

func (c *Classifier) record(ctx context.Context, ce ClassifiedError) {
	if c.metrics == nil || c.metrics.ErrorsClassifiedTotal == nil {
		return
	}
	c.metrics.ErrorsClassifiedTotal.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrErrorKind.String(ce.Kind.String()),
		telemetry.AttrHTTPStatus.Int(ce.HTTPStatus),
	))
}

// Detail renders err as "<error> | <trace>". The trace is the panic stack
// for recovered panics, the pkg/errors stack when one was captured, and
// otherwise the chain of wrapped errors. The result is deterministic for a
// given error value. It never panics, even for chains holding nil pointers.
func Detail(err error) (detail string) {
	if isNil(err) {
		err = errNilFailure
	}

	defer func() {
		if recover() != nil {
			detail = fmt.Sprintf("%T", err) + DetailDelimiter + "trace unavailable"
		}
	}()

	return err.Error() + DetailDelimiter + traceOf(err)
}

func traceOf(err error) string {
	var t tracer
	if errors.As(err, &t) && !isNil(t) {
		return strings.TrimSpace(t.Trace())
	}

	var st stackTracer
	if errors.As(err, &st) && !isNil(st) {
		return strings.TrimSpace(fmt.Sprintf("%+v", st.StackTrace()))
	}

	var chain []string
	for e := err; !isNil(e); e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %s", e, e.Error()))
	}
	return strings.Join(chain, "\n")
}

func validErrorStatus(status int) bool {
	return status >= http.StatusBadRequest && status <= 599
}
