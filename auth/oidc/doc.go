// Package oidc verifies ID tokens issued by an OpenID Connect provider.
//
// The Verifier discovers the issuer's JWKS endpoint on first use, caches the
// published signing keys and validates signature, issuer, audience and
// expiry with golang-jwt.
//
//	v := oidc.NewVerifier(oidc.Config{ClientID: "web-client.apps.googleusercontent.com"})
//	info, err := v.VerifyIdentity(ctx, rawIDToken)
package oidc
