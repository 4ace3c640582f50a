package auth

import (
	"net/http"

	"github.com/snacktrack/snacktrack-api/errcode"
)

const ModuleCode = 20

const (
	ErrCodeEmailTaken          = 1
	ErrCodeInvalidCredentials  = 2
	ErrCodeInvalidRefreshToken = 3
	ErrCodeUserNotFound        = 4
	ErrCodeNotAuthenticated    = 5
	ErrCodeRefreshUserMissing  = 6
	ErrCodeHashPassword        = 7
)

var (
	ErrEmailTaken = errcode.Register(errcode.New(ModuleCode, ErrCodeEmailTaken,
		"auth", "error.auth.email_taken", "Email already registered", http.StatusBadRequest))

	ErrInvalidCredentials = errcode.Register(errcode.New(ModuleCode, ErrCodeInvalidCredentials,
		"auth", "error.auth.invalid_credentials", "Invalid email or password", http.StatusUnauthorized))

	ErrInvalidRefreshToken = errcode.Register(errcode.New(ModuleCode, ErrCodeInvalidRefreshToken,
		"auth", "error.auth.invalid_refresh_token", "Invalid or expired refresh token", http.StatusUnauthorized))

	ErrUserNotFound = errcode.Register(errcode.New(ModuleCode, ErrCodeUserNotFound,
		"auth", "error.auth.user_not_found", "User not found", http.StatusNotFound))

	ErrNotAuthenticated = errcode.Register(errcode.New(ModuleCode, ErrCodeNotAuthenticated,
		"auth", "error.auth.not_authenticated", "Not authenticated", http.StatusUnauthorized))

	// ErrRefreshUserMissing is the refresh flow's 401 for a subject that no longer exists.
	ErrRefreshUserMissing = errcode.Register(errcode.New(ModuleCode, ErrCodeRefreshUserMissing,
		"auth", "error.auth.refresh_user_missing", "User not found", http.StatusUnauthorized))

	ErrHashPassword = errcode.Register(errcode.New(ModuleCode, ErrCodeHashPassword,
		"auth", "error.auth.hash_password", "password hashing failed"))
)
