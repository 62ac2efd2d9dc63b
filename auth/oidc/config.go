package oidc

import (
	"fmt"
	"time"
)

// GoogleIssuer is the issuer of Google ID tokens.
const GoogleIssuer = "https://accounts.google.com"

// Config configures ID token verification.
type Config struct {
	// Issuer is the provider's issuer URL, used for discovery.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// AlternateIssuers are additional accepted "iss" values.
	// Google also signs tokens with the bare "accounts.google.com".
	AlternateIssuers []string `yaml:"alternate_issuers" mapstructure:"alternate_issuers"`

	// ClientID is the expected "aud" claim. Verification fails with
	// ErrNotConfigured while it is empty.
	ClientID string `yaml:"client_id" mapstructure:"client_id"`

	// SupportedSigningAlgs restricts allowed signing algorithms (default: ["RS256"]).
	SupportedSigningAlgs []string `yaml:"supported_signing_algs" mapstructure:"supported_signing_algs"`

	// JWKSCacheDuration controls how long fetched keys are trusted (default: 1h).
	JWKSCacheDuration time.Duration `yaml:"jwks_cache_duration" mapstructure:"jwks_cache_duration"`

	// HTTPTimeout bounds discovery and JWKS requests (default: 10s).
	HTTPTimeout time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = GoogleIssuer
	}
	if c.Issuer == GoogleIssuer && len(c.AlternateIssuers) == 0 {
		c.AlternateIssuers = []string{"accounts.google.com"}
	}
	if len(c.SupportedSigningAlgs) == 0 {
		c.SupportedSigningAlgs = []string{"RS256"}
	}
	if c.JWKSCacheDuration == 0 {
		c.JWKSCacheDuration = time.Hour
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 10 * time.Second
	}
}

// Validate checks the configuration. An empty ClientID is allowed so the
// service can start without federated login; requests then fail.
func (c *Config) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("oidc.issuer is required")
	}
	if c.JWKSCacheDuration < 0 || c.HTTPTimeout < 0 {
		return fmt.Errorf("oidc durations must not be negative")
	}
	return nil
}
