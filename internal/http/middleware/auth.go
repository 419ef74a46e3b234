package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the cookie the web client stores its session token in.
const AuthCookieName = "auth_token"

// TokenFromRequest returns the caller's bearer credential: the auth_token
// cookie first, then an Authorization: Bearer header. Empty when neither is
// present; verification is left to the service.
func TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		if tok := strings.TrimSpace(cookie); tok != "" {
			return tok
		}
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
