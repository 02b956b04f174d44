package acl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/jsamuelsen11/core-api/internal/adapters/clients/acl/nonce"
	"github.com/jsamuelsen11/core-api/internal/domain"
	"github.com/jsamuelsen11/core-api/internal/platform/httpclient"
	"github.com/jsamuelsen11/core-api/internal/ports"
)

// NonceServiceName identifies the nonce downstream in traces, metrics and
// health results.
const NonceServiceName = "nonce-api"

// RetrieveFailedMessage is the client-facing message for any nonce failure.
const RetrieveFailedMessage = "Unable to retrieve value!"

var (
	_ ports.NonceClient   = (*NonceClient)(nil)
	_ ports.HealthChecker = (*NonceClient)(nil)
)

// NonceClient is the outbound adapter for the nonce service.
type NonceClient struct {
	req    *Requester
	path   string
	logger *slog.Logger
}

// NewNonceClient creates a NonceClient that issues GET path through client.
func NewNonceClient(client *httpclient.Client, path string, logger *slog.Logger) *NonceClient {
	return &NonceClient{
		req:    NewRequester(client, logger),
		path:   path,
		logger: logger,
	}
}

// RetrieveNonce fetches a nonce, forwarding scope as a query parameter when
// set. Any downstream failure, including an empty nonce, is reported as a
// 502 domain error whose cause keeps the original failure and its stack.
func (c *NonceClient) RetrieveNonce(ctx context.Context, scope string) (string, error) {
	var query url.Values
	if scope != "" {
		query = url.Values{"scope": []string{scope}}
	}

	var dto nonce.ResponseDTO
	if err := c.req.GetJSON(ctx, c.path, query, &dto); err != nil {
		return "", domain.Unavailable(RetrieveFailedMessage, err)
	}

	value, err := nonce.ToValue(dto)
	if err != nil {
		return "", domain.Unavailable(RetrieveFailedMessage, err)
	}
	return value, nil
}

// Name returns the identifier used in the health registry.
func (c *NonceClient) Name() string {
	return NonceServiceName
}

// HealthCheck reports the nonce service from the breaker state without a
// network call. cmd/server registers it for readiness, so an open breaker
// takes the instance out of rotation until a half-open probe succeeds.
func (c *NonceClient) HealthCheck(ctx context.Context) error {
	return c.req.HealthCheck(ctx)
}
