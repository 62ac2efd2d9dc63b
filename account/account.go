package account

import (
	"fmt"
	"time"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Roles lists every valid role.
var Roles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a wire value into a Role. An empty value yields RoleUser.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("account: unknown role %q", s)
	}
	return r, nil
}

// Provider records which login path created the account. It never changes.
type Provider string

const (
	// ProviderLocal accounts authenticate with email and password.
	ProviderLocal Provider = "LOCAL"
	// ProviderFederated accounts authenticate with a Google ID token.
	ProviderFederated Provider = "GOOGLE"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderLocal, ProviderFederated:
		return true
	}
	return false
}

// Account is a persisted identity.
type Account struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string // empty for federated accounts
	Provider     Provider
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account carries a password digest.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// Profile is the client-facing view of an account. It never includes the
// password digest.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile projects the account into its public form.
func (a *Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		FullName:  a.FullName,
		Email:     a.Email,
		Role:      a.Role,
		Provider:  a.Provider,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
