// Package acl is the anti-corruption layer for outbound calls. It turns
// downstream HTTP responses into domain errors and downstream payloads into
// values the rest of the service understands. Payload shapes live in
// per-service subpackages (acl/nonce); shared error mapping lives here.
package acl

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsamuelsen11/core-api/internal/domain"
)

// maxErrorBodySize limits how much of an error response body is read.
const maxErrorBodySize = 1 << 20

// errorBody covers the two error shapes downstream services send: RFC 7807
// problem details and the {"status":{...}} envelope this service family
// uses.
type errorBody struct {
	Detail string        `json:"detail"`
	Errors []errorDetail `json:"errors"`
	Status *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}

type errorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (b errorBody) message() string {
	if b.Detail != "" {
		return b.Detail
	}
	if b.Status != nil {
		return b.Status.Message
	}
	return ""
}

// TranslateHTTPError maps a non-success downstream response to an error
// wrapping one of the domain sentinels. 400/422 responses that list field
// errors become a *domain.ValidationError. The returned error carries a
// stack trace.
func TranslateHTTPError(resp *http.Response) error {
	body := parseErrorBody(resp)

	detail := body.message()
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch code := resp.StatusCode; {
	case code == http.StatusNotFound:
		return errors.Wrap(domain.ErrNotFound, detail)

	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		if len(body.Errors) > 0 {
			return errors.WithStack(toValidationError(body.Errors))
		}
		return errors.Wrap(domain.ErrValidation, detail)

	case code == http.StatusConflict:
		return errors.Wrap(domain.ErrConflict, detail)

	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.Wrap(domain.ErrForbidden, detail)

	case code >= http.StatusInternalServerError || code == http.StatusTooManyRequests:
		return errors.Wrap(domain.ErrUnavailable, detail)

	default:
		return errors.Errorf("unexpected status %d: %s", code, detail)
	}
}

func parseErrorBody(resp *http.Response) errorBody {
	if resp.Body == nil {
		return errorBody{}
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/problem+json") && !strings.HasPrefix(ct, "application/json") {
		return errorBody{}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return errorBody{}
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return errorBody{}
	}
	return body
}

// toValidationError keeps downstream field order and strips the "body."
// location prefix.
func toValidationError(details []errorDetail) *domain.ValidationError {
	verr := &domain.ValidationError{}
	for _, d := range details {
		verr.Add(strings.TrimPrefix(d.Location, "body."), d.Message)
	}
	return verr
}
