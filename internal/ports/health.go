package ports

import "context"

// HealthChecker reports the health of one dependency, such as the nonce
// service. The readiness endpoint consults every registered checker.
type HealthChecker interface {
	// Name identifies the dependency in readiness output, e.g. "nonce-api".
	Name() string

	// HealthCheck returns nil when the dependency is usable. It must honor
	// ctx, which carries the per-check timeout.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry runs the registered checkers for the readiness endpoint.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every check and returns the results keyed by name. A
	// nil value means healthy. The errors are for logging only; they never
	// reach a client.
	CheckAll(ctx context.Context) map[string]error
}
