package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig for CORSWithConfig.
type CORSConfig struct {
	// AllowOrigins lists exact origins; a single "*" allows any.
	AllowOrigins []string

	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string

	// AllowCredentials echoes the request origin instead of "*".
	AllowCredentials bool

	// MaxAge for preflight caching, in seconds.
	MaxAge int
}

// RateLimitHeaders are exposed so browsers can read quota state.
var RateLimitHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}

// DefaultCORSConfig allows the given origins with credentials, any method and header,
// and exposes the rate limit headers.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    RateLimitHeaders,
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// CORSWithConfig answers preflight requests with 204 and decorates everything else.
// Requests from origins outside the list get no CORS headers.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{"*"}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{"*"}
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 600
	}

	anyOrigin := len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*"
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		allowed[o] = true
	}
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if !anyOrigin && !allowed[origin] {
			c.Next()
			return
		}

		h := c.Writer.Header()
		if anyOrigin && !cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if exposeHeaders != "" {
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
		}

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", preflightValue(cfg.AllowMethods, c.GetHeader("Access-Control-Request-Method")))
			if reqHeaders := c.GetHeader("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", preflightValue(cfg.AllowHeaders, reqHeaders))
			}
			h.Set("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// A "*" list echoes what the browser asked for, which also works with credentials.
func preflightValue(list []string, requested string) string {
	if len(list) == 1 && list[0] == "*" {
		return requested
	}
	return strings.Join(list, ", ")
}
