// Package app assembles authsvc from its configuration and runs its
// lifecycle.
//
// Startup runs in phases: infrastructure components start first (telemetry
// and the account store backend), then the account engine and routes are
// wired against the started store, then the HTTP server starts. Shutdown
// stops everything in reverse order within the graceful timeout.
//
//	cfg, err := app.Load()
//	a, err := app.New(cfg)
//	err = a.Run(ctx)
package app
