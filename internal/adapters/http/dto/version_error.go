package dto

import (
	"fmt"
	"net/http"
)

// Fallback values used when a negotiation error context is malformed.
const (
	VersionFallbackErrorCode = "ApiVersionNegotiationFailed"
	VersionFallbackMessage   = "The requested API version could not be negotiated"
)

// VersionErrorContext describes a failed API version negotiation.
type VersionErrorContext interface {
	StatusCode() int
	ErrorCode() string
	Message() string
}

// versionFailure is a VersionErrorContext carried as an error through the
// classifier.
type versionFailure interface {
	error
	VersionErrorContext
}

// NewVersionErrorEnvelope maps a negotiation failure to an envelope with
// message "{ErrorCode} - {Message}". It never panics: a nil or malformed
// context yields a 400 with a generic negotiation message.
func NewVersionErrorEnvelope(vctx VersionErrorContext) (status int, env Envelope[any]) {
	defer func() {
		if recover() != nil {
			status, env = versionFallback()
		}
	}()

	if vctx == nil {
		return versionFallback()
	}

	status = vctx.StatusCode()
	code, msg := vctx.ErrorCode(), vctx.Message()
	if status < http.StatusBadRequest || status > 599 || code == "" || msg == "" {
		return versionFallback()
	}

	return status, NewError(statusCode(status), formatVersionMessage(code, msg))
}

func versionFallback() (int, Envelope[any]) {
	return http.StatusBadRequest, NewError(
		statusCode(http.StatusBadRequest),
		formatVersionMessage(VersionFallbackErrorCode, VersionFallbackMessage),
	)
}

func formatVersionMessage(code, msg string) string {
	return fmt.Sprintf("%s - %s", code, msg)
}
