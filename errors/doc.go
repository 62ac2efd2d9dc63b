// Package errors provides the application error type used across the auth
// service. Every failure that crosses the HTTP boundary is an *AppError carrying
// a machine-readable code, a client-safe message and a suggested HTTP status.
package errors
