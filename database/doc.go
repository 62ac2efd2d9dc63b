// Package database opens GORM connections for the SQL account store.
//
// The driver is chosen by Config.Driver ("sqlite" or "postgres"). Open
// retries with backoff, configures the pool and routes GORM logs through
// the service logger. Component wraps DB for the component registry and
// applies versioned migrations on start.
package database
