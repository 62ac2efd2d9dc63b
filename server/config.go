package server

import (
	"fmt"
	"time"

	"github.com/kbukum/authsvc/server/middleware"
	"github.com/kbukum/authsvc/util"
)

// Config holds HTTP server configuration. Timeouts are duration strings
// such as "15s" or "1m".
type Config struct {
	Host           string                `yaml:"host" mapstructure:"host"`
	Port           int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout    string                `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   string                `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout    string                `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxBodySize    string                `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "1MB"
	TrustedProxies []string              `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`
	CORS           middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets default values for unset fields. Port 0 means 8080.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	setDefault(&c.ReadTimeout, "15s")
	setDefault(&c.WriteTimeout, "15s")
	setDefault(&c.IdleTimeout, "60s")
	setDefault(&c.MaxBodySize, "1MB")

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
}

// Validate checks the port range and that every timeout parses.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	for name, v := range map[string]string{
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
		"idle_timeout":  c.IdleTimeout,
	} {
		if v == "" {
			continue
		}
		if d, err := util.ParseDuration(v); err != nil || d < 0 {
			return fmt.Errorf("server.%s must be a non-negative duration (got: %q)", name, v)
		}
	}
	return nil
}

func (c *Config) timeout(v string) time.Duration {
	d, _ := util.ParseDuration(v)
	return d
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
