package app

import (
	"time"

	"github.com/kbukum/authsvc/authn"
	"github.com/kbukum/authsvc/logger"
)

// Option adjusts the App before its components are assembled. Options run
// after the config defaults are applied.
type Option func(*App)

// WithLogger replaces the logger built from the logging section. The global
// logger is left untouched.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) { a.Logger = l }
}

// WithGracefulTimeout bounds Shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(a *App) { a.gracefulTimeout = d }
}

// WithIdentityVerifier replaces the Google ID token verifier.
func WithIdentityVerifier(v authn.IdentityVerifier) Option {
	return func(a *App) { a.verifier = v }
}

// WithPort overrides server.port. Port 0 binds a free port.
func WithPort(port int) Option {
	return func(a *App) { a.Cfg.Server.Port = port }
}
