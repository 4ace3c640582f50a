package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDKey holds the authenticated subject in the gin context.
	UserIDKey = "user_id"
	// AccessTokenKey holds the raw bearer token once it has been verified.
	AccessTokenKey = "access_token"
)

// UserID returns the authenticated subject, if any.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// AccessToken returns the verified bearer token.
func AccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenKey)
}

// bearerToken returns the token after "Bearer ", or "" when the header is absent or
// uses another scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
