package ports

import "context"

// NonceClient retrieves single-use values from the downstream nonce service.
// Implemented by the ACL adapter; called by HTTP handlers.
type NonceClient interface {
	// RetrieveNonce returns a fresh nonce. scope is optional and forwarded
	// to the downstream as-is. Failures are domain errors carrying a
	// client-safe message.
	RetrieveNonce(ctx context.Context, scope string) (string, error)
}
