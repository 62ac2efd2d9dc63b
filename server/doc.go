// Package server provides the HTTP server of authsvc: a Gin engine served
// over HTTP/1.1 and h2c with a managed lifecycle, the standard middleware
// stack and the /health and /info endpoints.
//
// # Middleware
//
// Applied by ApplyMiddleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request id generation and propagation
//   - Tracing: OpenTelemetry server spans
//   - CORS: cross-origin resource sharing
//   - BodySize: request body size limits
//   - Logging: request logging and request metrics
//
// Authenticate and RequireRoles guard individual routes.
package server
