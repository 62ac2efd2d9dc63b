// Package authz is the access control gate in front of protected routes.
//
// Authenticate turns an Authorization header into verified session claims;
// Authorize checks those claims against the roles a route allows. Both
// return *errors.AppError values ready for the response envelope.
//
//	gate := authz.NewGate(codec)
//	claims, err := gate.Authenticate(r.Header.Get("Authorization"))
//	err = gate.Authorize(claims, account.RoleAdmin)
package authz
