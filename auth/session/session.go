// Package session issues and verifies the signed bearer tokens handed to
// clients after a successful login. A token carries a projection of the
// account (id, email, role, provider) and is never stored server-side.
package session

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/auth/jwt"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed payload, unknown enum values or expiry.
var ErrInvalidToken = errors.New("session: invalid or expired token")

// Claims is the payload of a session token.
type Claims struct {
	ID       string           `json:"id"`
	Email    string           `json:"email"`
	Role     account.Role     `json:"role"`
	Provider account.Provider `json:"provider"`
	gojwt.RegisteredClaims
}

// ClaimsFor projects an account into session claims.
func ClaimsFor(a *account.Account) *Claims {
	return &Claims{
		ID:       a.ID,
		Email:    a.Email,
		Role:     a.Role,
		Provider: a.Provider,
	}
}

// SetDefaults stamps the registered claims before signing.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	c.Subject = c.ID
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	c.Issuer = issuer
	c.Audience = audience
	if c.RegisteredClaims.ID == "" {
		c.RegisteredClaims.ID = uuid.NewString()
	}
}

// Codec signs and verifies session tokens.
type Codec struct {
	svc *jwt.Service[*Claims]
}

// NewCodec builds a Codec from the token configuration.
func NewCodec(cfg jwt.Config, opts ...jwt.Option) (*Codec, error) {
	svc, err := jwt.NewService(&cfg, func() *Claims { return &Claims{} }, opts...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Codec{svc: svc}, nil
}

// TTL returns the lifetime of issued tokens.
func (c *Codec) TTL() time.Duration { return c.svc.TTL() }

// Issue signs claims into a token valid for the configured TTL.
func (c *Codec) Issue(claims *Claims) (string, error) {
	token, err := c.svc.GenerateAccess(claims)
	if err != nil {
		return "", fmt.Errorf("session: issue: %w", err)
	}
	return token, nil
}

// Verify checks a token and returns its claims. Every failure yields
// ErrInvalidToken wrapping the cause.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims, err := c.svc.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || !claims.Role.Valid() || !claims.Provider.Valid() {
		return nil, fmt.Errorf("%w: malformed claims", ErrInvalidToken)
	}
	return claims, nil
}
