package database

import (
	"fmt"
	"time"

	"github.com/kbukum/authsvc/util"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// PoolConfig bounds the sql.DB connection pool. It is ignored for sqlite,
// which always runs on a single connection.
type PoolConfig struct {
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxLifetime string `mapstructure:"max_lifetime"`  // e.g. "1h"
	MaxIdleTime string `mapstructure:"max_idle_time"` // e.g. "5m"
}

// Config describes the SQL account store connection.
type Config struct {
	Driver string     `mapstructure:"driver"` // sqlite or postgres
	DSN    string     `mapstructure:"dsn"`    // file path or ":memory:" for sqlite
	Pool   PoolConfig `mapstructure:"pool"`

	// ConnectAttempts is how many times Open tries before giving up, with a
	// linear backoff of one second per attempt.
	ConnectAttempts int `mapstructure:"connect_attempts"`

	// Migrate runs the embedded migrations on Start.
	Migrate bool `mapstructure:"migrate"`

	SlowQuery string `mapstructure:"slow_query"` // queries slower than this log at warn
	LogLevel  string `mapstructure:"log_level"`  // silent, error, warn or info
}

// ApplyDefaults fills zero fields. A sqlite config with no DSN becomes an
// in-memory database.
func (c *Config) ApplyDefaults() {
	defaults := map[*string]string{
		&c.Driver:           DriverSQLite,
		&c.Pool.MaxLifetime: "1h",
		&c.Pool.MaxIdleTime: "5m",
		&c.SlowQuery:        "200ms",
		&c.LogLevel:         "warn",
	}
	for field, v := range defaults {
		if *field == "" {
			*field = v
		}
	}
	if c.Driver == DriverSQLite && c.DSN == "" {
		c.DSN = ":memory:"
	}
	if c.Pool.MaxOpen <= 0 {
		c.Pool.MaxOpen = 25
	}
	if c.Pool.MaxIdle <= 0 {
		c.Pool.MaxIdle = 5
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = 5
	}
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("database.dsn is required for %s", c.Driver)
	}
	if c.Pool.MaxIdle > c.Pool.MaxOpen {
		return fmt.Errorf("database.pool.max_idle (%d) exceeds max_open (%d)", c.Pool.MaxIdle, c.Pool.MaxOpen)
	}
	for name, v := range map[string]string{
		"pool.max_lifetime":  c.Pool.MaxLifetime,
		"pool.max_idle_time": c.Pool.MaxIdleTime,
		"slow_query":         c.SlowQuery,
	} {
		if _, err := util.ParseDuration(v); err != nil {
			return fmt.Errorf("database.%s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) duration(v string) time.Duration {
	d, _ := util.ParseDuration(v)
	return d
}
