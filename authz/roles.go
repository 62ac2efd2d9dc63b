package authz

import "github.com/kbukum/authsvc/account"

// Allowed reports whether role is one of allowed. Unknown roles never match,
// and an empty allowed list denies everything.
func Allowed(role account.Role, allowed ...account.Role) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range allowed {
		switch r {
		case account.RoleUser, account.RoleAdmin:
			if r == role {
				return true
			}
		}
	}
	return false
}
