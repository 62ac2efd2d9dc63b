// Package jwt provides a generic HMAC JWT service parameterized by a claims
// type T, which must implement jwt.Claims (typically by embedding
// jwt.RegisteredClaims).
//
// Usage:
//
//	svc, err := jwt.NewService(&cfg, func() *MyClaims { return &MyClaims{} })
//	token, err := svc.GenerateAccess(&MyClaims{UserID: "user-123"})
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// DefaultsSetter is implemented by claims types that accept the standard
// time, issuer and audience claims before signing.
type DefaultsSetter interface {
	SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string)
}

// Service provides JWT token generation and parsing for claims type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	ttl      time.Duration
	newEmpty func() T
	now      func() time.Time
}

// Option configures a Service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewService creates a new JWT service. newEmpty returns a fresh T for parsing.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T, opts ...Option) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service[T]{cfg: *cfg, ttl: cfg.TTL(), newEmpty: newEmpty, now: o.now}, nil
}

// TTL returns the configured access token lifetime.
func (s *Service[T]) TTL() time.Duration { return s.ttl }

// Generate signs the given claims as-is.
func (s *Service[T]) Generate(claims T) (string, error) {
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString(s.cfg.key())
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// GenerateAccess stamps the standard claims (iat, exp, iss, aud) and signs.
func (s *Service[T]) GenerateAccess(claims T) (string, error) {
	if setter, ok := any(claims).(DefaultsSetter); ok {
		setter.SetDefaults(s.now(), s.ttl, s.cfg.Issuer, s.cfg.Audience)
	}
	return s.Generate(claims)
}

// Parse validates and parses a token string into claims of type T. It checks
// the signature, the algorithm, expiry and, when configured, issuer/audience.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.key(), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}
	return opts
}
