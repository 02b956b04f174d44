package versioning

import (
	"fmt"
	"net/http"
)

// Error codes reported when negotiation fails.
const (
	CodeUnspecified = "ApiVersionUnspecified"
	CodeInvalid     = "InvalidApiVersion"
	CodeUnsupported = "UnsupportedApiVersion"
	CodeAmbiguous   = "AmbiguousApiVersion"
)

// Error is a failed API version negotiation. It satisfies
// dto.VersionErrorContext, so the error classifier renders it as
// "{ErrorCode} - {Message}".
type Error struct {
	status  int
	code    string
	message string
}

func newError(code, format string, args ...any) *Error {
	return &Error{
		status:  http.StatusBadRequest,
		code:    code,
		message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("api version negotiation failed: %s: %s", e.code, e.message)
}

// StatusCode returns the HTTP status of the failure.
func (e *Error) StatusCode() int { return e.status }

// ErrorCode returns the machine-readable failure code.
func (e *Error) ErrorCode() string { return e.code }

// Message returns the client-facing description.
func (e *Error) Message() string { return e.message }
