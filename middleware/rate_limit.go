package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/limiter"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// Counter is the subset of limiter.FallbackCounter the middleware uses.
type Counter interface {
	IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (limiter.Decision, error)
}

// RateLimitConfig wires the middleware. Tokens may be nil, in which case only a
// user_id already present in the context marks a request as authenticated.
type RateLimitConfig struct {
	Counter Counter
	Policy  *limiter.Policy
	Tokens  TokenVerifier
	Logger  *logger.CtxZapLogger

	// ExcludedPaths match exactly; ExcludedPrefixes match by prefix.
	ExcludedPaths    []string
	ExcludedPrefixes []string

	Now func() time.Time
}

// DefaultExcludedPaths are never counted.
var DefaultExcludedPaths = []string{"/", "/health", "/docs", "/redoc", "/openapi.json"}

var DefaultExcludedPrefixes = []string{"/static"}

// RateLimitResponse is the 429 body.
type RateLimitResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int64  `json:"retry_after"`
}

// RateLimit counts every non-excluded request against a per-minute window keyed by
// user or client IP. Denied requests get 429 and never reach the handler.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Counter == nil || cfg.Policy == nil {
		panic("RateLimitConfig requires Counter and Policy")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger("rate_limit")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ExcludedPaths == nil {
		cfg.ExcludedPaths = DefaultExcludedPaths
	}
	if cfg.ExcludedPrefixes == nil {
		cfg.ExcludedPrefixes = DefaultExcludedPrefixes
	}

	excluded := make(map[string]bool, len(cfg.ExcludedPaths))
	for _, p := range cfg.ExcludedPaths {
		excluded[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method == http.MethodOptions || excluded[path] || hasPrefix(path, cfg.ExcludedPrefixes) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		now := cfg.Now()
		identity := resolveIdentity(c, cfg.Tokens)
		limit := cfg.Policy.Limit(path, identity.Authenticated())
		key := cfg.Policy.Key(identity, now)

		decision, err := cfg.Counter.IncrementAndCheck(ctx, key, limit, limiter.Window)
		if err != nil {
			cfg.Logger.ErrorCtx(ctx, "rate limit check failed, allowing request",
				zap.String("identity", identity.String()),
				zap.String("path", path),
				zap.Error(err),
			)
			c.Next()
			return
		}

		quota := cfg.Policy.Quota(limit, decision.Count, now)
		if !decision.Allowed {
			cfg.Logger.WarnCtx(ctx, "rate limit exceeded",
				zap.String("identity", identity.String()),
				zap.String("path", path),
				zap.Int64("count", decision.Count),
				zap.Int("limit", limit),
			)
			c.Header("Retry-After", strconv.FormatInt(quota.RetryAfter, 10))
			c.Header("X-RateLimit-Limit", strconv.Itoa(quota.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(quota.Reset, 10))
			status := limiter.ErrQuotaExceeded.HTTPStatus()
			c.AbortWithStatusJSON(status, RateLimitResponse{
				Error:      http.StatusText(status),
				Message:    limiter.ErrQuotaExceeded.Message(),
				RetryAfter: quota.RetryAfter,
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(quota.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(quota.Reset, 10))
		c.Next()
	}
}

// resolveIdentity prefers a user already authenticated upstream, then a valid access
// token, then the client IP.
func resolveIdentity(c *gin.Context, tokens TokenVerifier) limiter.Identity {
	if id, ok := UserID(c); ok {
		return limiter.UserIdentity(id)
	}
	if tokens != nil {
		if token := bearerToken(c); token != "" {
			claims, err := tokens.VerifyType(c.Request.Context(), token, jwt.TypeAccess)
			if err == nil && claims.Subject != "" {
				c.Set(UserIDKey, claims.Subject)
				return limiter.UserIdentity(claims.Subject)
			}
		}
	}
	return limiter.IPIdentity(ClientIP(c))
}

// ClientIP is the first X-Forwarded-For entry, then X-Real-IP, then the peer address,
// then "unknown".
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	if addr := c.Request.RemoteAddr; addr != "" {
		if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
			return host
		}
		return addr
	}
	return "unknown"
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
