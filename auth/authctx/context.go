// Package authctx carries verified session claims through a request context.
//
//	ctx = authctx.Set(ctx, claims)        // in the authentication middleware
//	claims, ok := authctx.Get(ctx)        // in handlers
package authctx

import (
	"context"
	"errors"

	"github.com/kbukum/authsvc/auth/session"
)

type contextKey struct{}

var claimsKey = contextKey{}

// ErrNoClaims is returned when claims are not found in the context.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Set stores session claims in the context.
func Set(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get returns the session claims stored in ctx.
func Get(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*session.Claims)
	return claims, ok && claims != nil
}

// GetOrError returns the claims or ErrNoClaims.
func GetOrError(ctx context.Context) (*session.Claims, error) {
	claims, ok := Get(ctx)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}
