package oidc

import "time"

// IDToken represents a parsed and verified ID token.
type IDToken struct {
	Issuer    string
	Subject   string
	Audience  []string
	ExpiresAt time.Time
	IssuedAt  time.Time

	// Claims holds every claim for provider-specific extraction.
	Claims map[string]interface{}
}

// UserInfo holds the standard profile claims of an ID token.
type UserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

// ToUserInfo extracts the standard profile claims.
func (t *IDToken) ToUserInfo() *UserInfo {
	return &UserInfo{
		Subject:       t.Subject,
		Email:         getString(t.Claims, "email"),
		EmailVerified: getBool(t.Claims, "email_verified"),
		Name:          getString(t.Claims, "name"),
		Picture:       getString(t.Claims, "picture"),
	}
}

func getString(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

// getBool accepts both JSON booleans and the "true"/"false" strings some
// providers emit for email_verified.
func getBool(m map[string]interface{}, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
