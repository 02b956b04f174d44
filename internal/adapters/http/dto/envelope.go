// Package dto defines the response envelope every endpoint writes, the
// policy that classifies failures into envelopes, and the request models
// bound by the validation gate.
//
// Wire shape:
//
//	{"status": {"code": "200", "message": "OK"}, "data": ...}
//	{"status": {"code": "404", "message": "Account not found"}}
//
// Error envelopes never carry a data key.
package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jsamuelsen11/core-api/internal/platform/logging"
)

// ErrMissingStatusCode is returned when decoding an envelope without
// status.code.
var ErrMissingStatusCode = errors.New("envelope: missing status.code")

// Envelope is the normalized response body. It is immutable once
// constructed; build a new one per response.
type Envelope[T any] struct {
	code    string
	message string
	data    *T
}

// envelopeStatus and envelopeJSON are the wire representation. Field names
// are camelCase across the whole API.
type envelopeStatus struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelopeJSON[T any] struct {
	Status envelopeStatus `json:"status"`
	Data   *T             `json:"data,omitempty"`
}

// NewSuccess creates a 200 envelope carrying data.
func NewSuccess[T any](data T) Envelope[T] {
	return NewSuccessStatus(http.StatusOK, data)
}

// NewSuccessStatus creates a success envelope for a 2xx status. A status
// outside the 2xx range is coerced to 200 so that a success envelope can
// never advertise a failure code.
func NewSuccessStatus[T any](status int, data T) Envelope[T] {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		status = http.StatusOK
	}
	return Envelope[T]{
		code:    statusCode(status),
		message: successMessage(status),
		data:    &data,
	}
}

// NewError creates an error envelope. It never carries data.
func NewError(code, message string) Envelope[any] {
	return Envelope[any]{code: code, message: message}
}

// Code returns status.code.
func (e Envelope[T]) Code() string { return e.code }

// Message returns status.message.
func (e Envelope[T]) Message() string { return e.message }

// Data returns the payload and whether one is present.
func (e Envelope[T]) Data() (T, bool) {
	if e.data == nil {
		var zero T
		return zero, false
	}
	return *e.data, true
}

// IsError reports whether the envelope describes a failure.
func (e Envelope[T]) IsError() bool {
	status, err := e.HTTPStatus()
	return err != nil || status < http.StatusOK || status >= http.StatusMultipleChoices
}

// HTTPStatus parses status.code as an HTTP status.
func (e Envelope[T]) HTTPStatus() (int, error) {
	status, err := strconv.Atoi(e.code)
	if err != nil {
		return 0, fmt.Errorf("envelope: invalid status.code %q: %w", e.code, err)
	}
	return status, nil
}

// MarshalJSON implements json.Marshaler.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON[T]{
		Status: envelopeStatus{Code: e.code, Message: e.message},
		Data:   e.data,
	})
}

// UnmarshalJSON implements json.Unmarshaler. An absent data key stays
// absent.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var wire envelopeJSON[T]
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if wire.Status.Code == "" {
		return ErrMissingStatusCode
	}
	*e = Envelope[T]{
		code:    wire.Status.Code,
		message: wire.Status.Message,
		data:    wire.Data,
	}
	return nil
}

// WriteEnvelope writes env as JSON. The transport status is derived from
// status.code so the two can never diverge; an unparseable code is written
// as a 500 envelope.
func WriteEnvelope[T any](w http.ResponseWriter, r *http.Request, env Envelope[T]) {
	status, err := env.HTTPStatus()
	if err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "refusing to write envelope with invalid status code",
			slog.String("code", env.Code()),
			slog.Any("error", err),
		)
		WriteEnvelope(w, r, NewError(statusCode(http.StatusInternalServerError), GenericErrorMessage))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// A timed-out request has already been answered; its output is dropped.
	encErr := json.NewEncoder(w).Encode(env)
	if encErr != nil && !errors.Is(encErr, http.ErrHandlerTimeout) {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response envelope",
			slog.Any("error", encErr),
		)
	}
}

// WriteStatus writes an error envelope whose message is the standard text
// of status. Used for router-level failures (404, 405, 504).
func WriteStatus(w http.ResponseWriter, r *http.Request, status int) {
	WriteEnvelope(w, r, NewError(statusCode(status), http.StatusText(status)))
}
