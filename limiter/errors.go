package limiter

import (
	"net/http"

	"github.com/snacktrack/snacktrack-api/errcode"
)

const ModuleCode = 71

const (
	ErrCodeBackendUnavailable = 1
	ErrCodeQuotaExceeded      = 2
)

var (
	// ErrBackendUnavailable is recovered locally by the fallback counter.
	ErrBackendUnavailable = errcode.Register(errcode.New(ModuleCode, ErrCodeBackendUnavailable,
		"limiter", "error.limiter.backend_unavailable", "rate limit backend unavailable",
		http.StatusServiceUnavailable))

	// ErrQuotaExceeded supplies the status and message of the 429 response.
	ErrQuotaExceeded = errcode.Register(errcode.New(ModuleCode, ErrCodeQuotaExceeded,
		"limiter", "error.limiter.quota_exceeded", "Rate limit exceeded. Please slow down.",
		http.StatusTooManyRequests))
)
