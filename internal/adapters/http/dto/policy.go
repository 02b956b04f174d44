package dto

import (
	"log/slog"
	"net/http"
	"strconv"
)

// GenericErrorMessage is the only message clients outside development ever
// see for an unexpected failure.
const GenericErrorMessage = "Sorry, your request could not be completed. " +
	"If problem persists, please contact us for assistance"

// DetailDelimiter separates the failure message from its trace in
// development responses.
const DetailDelimiter = " | "

// Kind is the classification of a failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindDomain
	KindValidation
	KindVersionNegotiation
)

func (k Kind) String() string {
	switch k {
	case KindDomain:
		return "domain"
	case KindValidation:
		return "validation"
	case KindVersionNegotiation:
		return "version_negotiation"
	default:
		return "unexpected"
	}
}

// logLevel returns the severity of the single record logged per classified
// failure. Only unexpected failures are errors; the rest are expected
// outcomes of client input or business rules.
func (k Kind) logLevel() slog.Level {
	switch k {
	case KindUnexpected:
		return slog.LevelError
	case KindDomain, KindVersionNegotiation:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func statusCode(status int) string {
	return strconv.Itoa(status)
}

func successMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return http.StatusText(http.StatusOK)
}
