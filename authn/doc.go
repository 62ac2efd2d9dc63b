// Package authn implements the account flows: register, login, federated
// login and lookup by id. Every flow returns an *errors.AppError whose code
// and message are safe to show to clients; causes are logged, not returned.
package authn
