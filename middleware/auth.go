package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/errcode"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/jwt"
)

// TokenVerifier is satisfied by *jwt.TokenManager.
type TokenVerifier interface {
	VerifyType(ctx context.Context, tokenString string, want jwt.TokenType) (*jwt.Claims, error)
}

// Authenticate stores the subject of a valid access token in the context. Requests
// without one pass through unchanged.
func Authenticate(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tokens.VerifyType(c.Request.Context(), token, jwt.TypeAccess); err == nil {
				c.Set(UserIDKey, claims.Subject)
				c.Set(AccessTokenKey, token)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid access token with 401 and
// WWW-Authenticate: Bearer.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok && AccessToken(c) != "" {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			unauthorized(c, auth.ErrNotAuthenticated)
			return
		}
		claims, err := tokens.VerifyType(c.Request.Context(), token, jwt.TypeAccess)
		if err != nil {
			unauthorized(c, err)
			return
		}
		c.Set(UserIDKey, claims.Subject)
		c.Set(AccessTokenKey, token)
		c.Next()
	}
}

func unauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", "Bearer")
	if errors.Is(err, jwt.ErrInvalidTokenType) || errors.Is(err, auth.ErrNotAuthenticated) {
		httpx.HandleError(c, err)
		return
	}
	if layered, ok := errcode.As(err); ok && layered.HTTPStatus() != http.StatusUnauthorized {
		httpx.HandleError(c, err)
		return
	}
	httpx.HandleError(c, jwt.ErrTokenInvalid)
}
