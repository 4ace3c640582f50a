// Package provider holds the error kinds shared by the third-party data clients.
package provider

import (
	"net/http"

	"github.com/snacktrack/snacktrack-api/errcode"
)

const ModuleCode = 80

const (
	ErrCodeNotConfigured = 1
	ErrCodeUnauthorized  = 2
	ErrCodeForbidden     = 3
	ErrCodeQuota         = 4
	ErrCodeRateLimited   = 5
	ErrCodeUnreachable   = 6
	ErrCodeNotFound      = 7
	ErrCodeBadRequest    = 8
	ErrCodeFailed        = 9
)

var (
	ErrProviderNotConfigured = errcode.Register(errcode.New(ModuleCode, ErrCodeNotConfigured,
		"provider", "error.provider.not_configured", "provider API key not configured",
		http.StatusServiceUnavailable))

	ErrProviderUnauthorized = errcode.Register(errcode.New(ModuleCode, ErrCodeUnauthorized,
		"provider", "error.provider.unauthorized", "invalid provider API key",
		http.StatusUnauthorized))

	ErrProviderForbidden = errcode.Register(errcode.New(ModuleCode, ErrCodeForbidden,
		"provider", "error.provider.forbidden", "provider API access forbidden",
		http.StatusForbidden))

	ErrProviderQuota = errcode.Register(errcode.New(ModuleCode, ErrCodeQuota,
		"provider", "error.provider.quota", "provider API quota exceeded",
		http.StatusPaymentRequired))

	ErrProviderRateLimited = errcode.Register(errcode.New(ModuleCode, ErrCodeRateLimited,
		"provider", "error.provider.rate_limited", "provider API rate limit exceeded",
		http.StatusTooManyRequests))

	ErrProviderUnreachable = errcode.Register(errcode.New(ModuleCode, ErrCodeUnreachable,
		"provider", "error.provider.unreachable", "failed to connect to provider API",
		http.StatusServiceUnavailable))

	ErrProviderNotFound = errcode.Register(errcode.New(ModuleCode, ErrCodeNotFound,
		"provider", "error.provider.not_found", "resource not found",
		http.StatusNotFound))

	ErrProviderBadRequest = errcode.Register(errcode.New(ModuleCode, ErrCodeBadRequest,
		"provider", "error.provider.bad_request", "bad provider request",
		http.StatusBadRequest))

	ErrProviderFailed = errcode.Register(errcode.New(ModuleCode, ErrCodeFailed,
		"provider", "error.provider.failed", "provider request failed",
		http.StatusInternalServerError))
)
