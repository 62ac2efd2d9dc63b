package app

import (
	"fmt"

	"github.com/kbukum/authsvc/auth"
	"github.com/kbukum/authsvc/config"
	"github.com/kbukum/authsvc/database"
	"github.com/kbukum/authsvc/observability"
	"github.com/kbukum/authsvc/redis"
	"github.com/kbukum/authsvc/server"
	"github.com/kbukum/authsvc/util"
)

// ServiceName is the default service name and config lookup key.
const ServiceName = "authsvc"

// Account store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = database.DriverSQLite
	StorePostgres = database.DriverPostgres
	StoreRedis    = "redis"
)

// EnvAliases binds the plain environment variable names used by existing
// deployments onto nested config keys.
var EnvAliases = map[string]string{
	"PORT":             "server.port",
	"JWT_SECRET":       "auth.jwt.secret",
	"JWT_EXPIRES_IN":   "auth.jwt.access_token_ttl",
	"GOOGLE_CLIENT_ID": "auth.google.client_id",
	"DATABASE_URL":     "store.database.dsn",
}

// Config is the full authsvc configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Auth      auth.Config          `yaml:"auth" mapstructure:"auth"`
	Store     StoreConfig          `yaml:"store" mapstructure:"store"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// StoreConfig selects and configures the account store backend.
type StoreConfig struct {
	// Driver is one of memory, sqlite, postgres or redis (default: memory).
	Driver   string          `yaml:"driver" mapstructure:"driver"`
	Database database.Config `yaml:"database" mapstructure:"database"`
	Redis    redis.Config    `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults fills the section of the selected driver. An in-memory
// sqlite database always starts empty, so it is always migrated.
func (c *StoreConfig) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = StoreMemory
	}
	switch c.Driver {
	case StoreSQLite, StorePostgres:
		c.Database.Driver = c.Driver
		c.Database.ApplyDefaults()
		if c.Database.DSN == ":memory:" {
			c.Database.Migrate = true
		}
	case StoreRedis:
		c.Redis.ApplyDefaults()
	}
}

// Validate checks the section of the selected driver.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreMemory:
		return nil
	case StoreSQLite, StorePostgres:
		return c.Database.Validate()
	case StoreRedis:
		return c.Redis.Validate()
	}
	return fmt.Errorf("unsupported driver %q (want memory, sqlite, postgres or redis)", c.Driver)
}

// Describe returns a one-line summary for the startup log.
func (c *StoreConfig) Describe() string {
	switch c.Driver {
	case StoreSQLite, StorePostgres:
		return fmt.Sprintf("%s dsn=%s migrate=%t", c.Driver, util.MaskSecret(c.Database.DSN, 12), c.Database.Migrate)
	case StoreRedis:
		return fmt.Sprintf("redis %s/%d prefix=%s", c.Redis.Addr, c.Redis.DB, c.Redis.KeyPrefix)
	}
	return c.Driver
}

// Load reads the configuration from cmd/authsvc/config.yml, .env and the
// environment. Defaults are not applied.
func Load(opts ...config.LoaderOption) (*Config, error) {
	var cfg Config
	opts = append([]config.LoaderOption{config.WithEnvAliases(EnvAliases)}, opts...)
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
