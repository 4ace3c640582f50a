package httpx

import (
	"github.com/gin-gonic/gin"
)

const errorLogPolicyKey = "httpx.error_log_policy"

// errorLogPolicy is ErrorLoggingConfig with the ignore list indexed.
type errorLogPolicy struct {
	enabled bool
	ignored map[int]struct{}
	chain   bool
	level   string
}

// defaultErrorLogPolicy applies when ErrorLoggingMiddleware is not installed.
var defaultErrorLogPolicy = errorLogPolicy{chain: true, level: "error"}

func newErrorLogPolicy(cfg ErrorLoggingConfig) errorLogPolicy {
	p := errorLogPolicy{
		enabled: cfg.Enable,
		ignored: make(map[int]struct{}, len(cfg.IgnoreHTTPStatus)),
		chain:   cfg.FullErrorChain,
		level:   cfg.LogLevel,
	}
	for _, status := range cfg.IgnoreHTTPStatus {
		p.ignored[status] = struct{}{}
	}
	return p
}

func (p errorLogPolicy) shouldLog(status int) bool {
	if !p.enabled {
		return false
	}
	_, skip := p.ignored[status]
	return !skip
}

// ErrorLoggingMiddleware makes HandleError log failures according to cfg.
func ErrorLoggingMiddleware(cfg ErrorLoggingConfig) gin.HandlerFunc {
	policy := newErrorLogPolicy(cfg)
	return func(c *gin.Context) {
		c.Set(errorLogPolicyKey, policy)
		c.Next()
	}
}

func errorLogPolicyFrom(c *gin.Context) errorLogPolicy {
	if p, ok := c.Value(errorLogPolicyKey).(errorLogPolicy); ok {
		return p
	}
	return defaultErrorLogPolicy
}
