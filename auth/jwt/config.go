package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/authsvc/util"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// DefaultAccessTokenTTL is the token lifetime used when none is configured.
const DefaultAccessTokenTTL = "7d"

// Config configures the JWT token service.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	// Issuer is the "iss" claim (optional). When set, parsed tokens must carry it.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// Audience is the "aud" claim (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`

	// AccessTokenTTL is the token lifetime, e.g. "15m", "12h" or "7d".
	AccessTokenTTL string `yaml:"access_token_ttl" mapstructure:"access_token_ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == "" {
		c.AccessTokenTTL = DefaultAccessTokenTTL
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	if c.Secret == "" {
		return errors.New("jwt: secret is required")
	}
	ttl, err := util.ParseDuration(c.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("jwt: access_token_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("jwt: access_token_ttl must be positive (got: %s)", c.AccessTokenTTL)
	}
	return nil
}

// TTL returns the parsed access token lifetime. Call after Validate.
func (c *Config) TTL() time.Duration {
	ttl, _ := util.ParseDuration(c.AccessTokenTTL)
	return ttl
}

// signingMethod returns the golang-jwt SigningMethod instance.
func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *Config) key() []byte {
	return []byte(c.Secret)
}
