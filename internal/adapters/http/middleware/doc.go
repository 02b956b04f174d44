// Package middleware provides the inbound request pipeline.
//
// cmd/server composes it outermost first:
//
//	Recovery -> RequestID -> CorrelationID -> Timeout -> router(OpenTelemetry -> Logging -> routes)
//
// Timeout wraps the whole router. OpenTelemetry and Logging are mounted
// with Router.Use because they label spans, metrics and access logs with
// the matched route pattern.
//
// Per-route middleware (version negotiation, ValidationGate) is mounted by
// the router. Every failure a middleware produces is handed to a
// dto.ErrorWriter so it is logged once and answered with an envelope.
package middleware
