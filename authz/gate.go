package authz

import (
	"strings"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/auth/session"
	"github.com/kbukum/authsvc/errors"
)

// Client-facing messages.
const (
	MsgNoToken           = "Access denied. No token provided."
	MsgInvalidToken      = "Invalid or expired token"
	MsgNotAuthenticated  = "Access denied. Not authenticated."
	MsgInsufficientRoles = "Access denied. Insufficient permissions."
)

const bearerPrefix = "Bearer "

// TokenVerifier decodes a session token.
type TokenVerifier interface {
	Verify(token string) (*session.Claims, error)
}

// Gate authenticates bearer tokens and authorizes roles.
type Gate struct {
	verifier TokenVerifier
}

// NewGate creates a Gate backed by verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authenticate extracts the bearer token from an Authorization header value
// and verifies it. The prefix match is case-sensitive.
func (g *Gate) Authenticate(header string) (*session.Claims, error) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return nil, errors.Unauthorized(MsgNoToken)
	}
	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, errors.Unauthorized(MsgInvalidToken).WithCause(err)
	}
	return claims, nil
}

// Authorize reports whether claims carry one of roles.
func (g *Gate) Authorize(claims *session.Claims, roles ...account.Role) error {
	if claims == nil {
		return errors.Unauthorized(MsgNotAuthenticated)
	}
	if !Allowed(claims.Role, roles...) {
		return errors.Forbidden(MsgInsufficientRoles)
	}
	return nil
}
