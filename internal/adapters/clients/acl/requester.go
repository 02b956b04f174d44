package acl

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jsamuelsen11/core-api/internal/platform/httpclient"
	"github.com/jsamuelsen11/core-api/internal/platform/logging"
)

// Requester runs the request lifecycle shared by ACL clients: build the
// request, execute it through httpclient.Client, check the status, translate
// failures and decode the body. Every returned error carries a stack trace.
type Requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewRequester creates a Requester backed by client.
func NewRequester(client *httpclient.Client, logger *slog.Logger) *Requester {
	return &Requester{client: client, logger: logger}
}

// GetJSON sends GET path?query and decodes a 200 response into out.
func (r *Requester) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := r.client.URL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return errors.Wrapf(err, "creating GET request for %s", path)
	}
	req.Header.Set("Accept", "application/json")

	return r.execute(req, http.StatusOK, out)
}

// Name returns the downstream service name.
func (r *Requester) Name() string {
	return r.client.Name()
}

// HealthCheck reports the breaker state of the underlying client.
func (r *Requester) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}

func (r *Requester) execute(req *http.Request, wantStatus int, out any) error {
	ctx := req.Context()
	logger := logging.FromContextOr(ctx, r.logger)

	resp, err := r.client.Do(ctx, req)
	if resp != nil {
		defer r.closeBody(ctx, resp)
	}

	if err != nil {
		// Do returns the final response alongside the error once retries on
		// a retryable status are exhausted.
		if resp != nil && resp.StatusCode != wantStatus {
			return TranslateHTTPError(resp)
		}
		logger.WarnContext(ctx, "outbound request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("peer_service", r.client.Name()),
			slog.Any("error", err),
		)
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}

	if resp.StatusCode != wantStatus {
		logger.WarnContext(ctx, "unexpected outbound status",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("peer_service", r.client.Name()),
			slog.Int("status", resp.StatusCode),
			slog.Int("want_status", wantStatus),
		)
		return TranslateHTTPError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding response from %s %s", req.Method, req.URL.Path)
		}
	}

	return nil
}

func (r *Requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.FromContextOr(ctx, r.logger).WarnContext(ctx, "failed to close response body",
			slog.Any("error", err),
		)
	}
}
