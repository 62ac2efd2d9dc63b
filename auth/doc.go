// Package auth groups the credential and token building blocks of the
// service: password hashing (password), session tokens (jwt, session), ID
// token verification (oidc) and request-scoped claims (authctx). Config
// composes their settings under the "auth" configuration key.
package auth
