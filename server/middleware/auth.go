package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/auth/authctx"
	"github.com/kbukum/authsvc/auth/session"
	"github.com/kbukum/authsvc/authz"
	"github.com/kbukum/authsvc/errors"
)

// Authenticate verifies the bearer token and attaches its claims to the
// request context. Failures abort with 401.
func Authenticate(gate *authz.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := gate.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, err)
			return
		}
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireRoles lets the request through only if the authenticated caller
// holds one of roles. It must run after Authenticate.
func RequireRoles(gate *authz.Gate, roles ...account.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := claimsFrom(c)
		if err := gate.Authorize(claims, roles...); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*session.Claims, bool) {
	return authctx.Get(c.Request.Context())
}

func abort(c *gin.Context, err error) {
	appErr := errors.Wrap(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
