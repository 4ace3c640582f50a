package jwt

import (
	"net/http"

	"github.com/snacktrack/snacktrack-api/errcode"
)

const ModuleCode = 21

const (
	ErrCodeTokenInvalid         = 1
	ErrCodeTokenExpired         = 2
	ErrCodeTokenRevoked         = 3
	ErrCodeInvalidTokenType     = 4
	ErrCodeSecretEmpty          = 5
	ErrCodeAlgorithmUnsupported = 6
	ErrCodeSign                 = 7
	ErrCodeBlacklist            = 8
)

var (
	ErrTokenInvalid = errcode.Register(errcode.New(ModuleCode, ErrCodeTokenInvalid,
		"jwt", "error.jwt.token_invalid", "Invalid or expired token", http.StatusUnauthorized))

	ErrTokenExpired = errcode.Register(errcode.New(ModuleCode, ErrCodeTokenExpired,
		"jwt", "error.jwt.token_expired", "Invalid or expired token", http.StatusUnauthorized))

	ErrTokenRevoked = errcode.Register(errcode.New(ModuleCode, ErrCodeTokenRevoked,
		"jwt", "error.jwt.token_revoked", "Invalid or expired token", http.StatusUnauthorized))

	ErrInvalidTokenType = errcode.Register(errcode.New(ModuleCode, ErrCodeInvalidTokenType,
		"jwt", "error.jwt.invalid_token_type", "Invalid token type", http.StatusUnauthorized))

	ErrSecretEmpty = errcode.Register(errcode.New(ModuleCode, ErrCodeSecretEmpty,
		"jwt", "error.jwt.secret_empty", "jwt secret is empty"))

	ErrAlgorithmNotSupported = errcode.Register(errcode.New(ModuleCode, ErrCodeAlgorithmUnsupported,
		"jwt", "error.jwt.algorithm_not_supported", "jwt algorithm not supported"))

	ErrSign = errcode.Register(errcode.New(ModuleCode, ErrCodeSign,
		"jwt", "error.jwt.sign", "sign token failed"))

	ErrBlacklist = errcode.Register(errcode.New(ModuleCode, ErrCodeBlacklist,
		"jwt", "error.jwt.blacklist", "token blacklist unavailable"))
)
