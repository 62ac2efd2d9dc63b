package auth

import (
	"fmt"

	"github.com/kbukum/authsvc/auth/jwt"
	"github.com/kbukum/authsvc/auth/oidc"
	"github.com/kbukum/authsvc/auth/password"
)

// Config holds all authentication configuration.
type Config struct {
	// JWT configures session token signing.
	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`

	// Password configures password hashing.
	Password password.Config `yaml:"password" mapstructure:"password"`

	// Google configures ID token verification for federated login.
	Google oidc.Config `yaml:"google" mapstructure:"google"`
}

// ApplyDefaults sets defaults on every sub-configuration.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.Google.ApplyDefaults()
}

// Validate checks every sub-configuration.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	if err := c.Google.Validate(); err != nil {
		return fmt.Errorf("auth.google: %w", err)
	}
	return nil
}

// Describe returns a one-line summary for the startup log.
// Example: "JWT(HS256) TTL=7d password=bcrypt google=configured"
func (c *Config) Describe() string {
	google := "disabled"
	if c.Google.ClientID != "" {
		google = "configured"
	}
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s google=%s",
		c.JWT.Method, c.JWT.AccessTokenTTL, c.Password.Algorithm, google)
}
