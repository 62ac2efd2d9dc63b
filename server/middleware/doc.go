// Package middleware holds the Gin middleware stack of the HTTP server:
// recovery, request ids, tracing, CORS, body limits, request logging and
// the bearer-token gate.
package middleware
