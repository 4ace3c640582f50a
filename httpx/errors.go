package httpx

import (
	"net/http"

	"github.com/snacktrack/snacktrack-api/errcode"
	"github.com/snacktrack/snacktrack-api/validator"
)

const ModuleCode = validator.ModuleCode

const (
	ErrCodeInvalidDate      = 1
	ErrCodeInvalidStatus    = 2
	ErrCodeTooManyIDs       = 3
	ErrCodeMalformedRequest = 4
	ErrCodeNotFound         = 5
	ErrCodeMethodNotAllowed = 6
	ErrCodeInternal         = 7
)

var (
	ErrInvalidDate = errcode.Register(errcode.New(ModuleCode, ErrCodeInvalidDate,
		"api", "error.api.invalid_date", "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest))

	ErrInvalidStatus = errcode.Register(errcode.New(ModuleCode, ErrCodeInvalidStatus,
		"api", "error.api.invalid_status", "Invalid status", http.StatusBadRequest))

	ErrTooManyIDs = errcode.Register(errcode.New(ModuleCode, ErrCodeTooManyIDs,
		"api", "error.api.too_many_ids", "Too many ids", http.StatusBadRequest))

	ErrMalformedRequest = errcode.Register(errcode.New(ModuleCode, ErrCodeMalformedRequest,
		"api", "error.api.malformed_request", "Malformed request", http.StatusUnprocessableEntity))

	ErrNotFound = errcode.Register(errcode.New(ModuleCode, ErrCodeNotFound,
		"api", "error.api.not_found", "Not Found", http.StatusNotFound))

	ErrMethodNotAllowed = errcode.Register(errcode.New(ModuleCode, ErrCodeMethodNotAllowed,
		"api", "error.api.method_not_allowed", "Method Not Allowed", http.StatusMethodNotAllowed))

	ErrInternal = errcode.Register(errcode.New(ModuleCode, ErrCodeInternal,
		"api", "error.api.internal", "Internal Server Error", http.StatusInternalServerError))

	// ErrValidation is rendered with a "fields" object.
	ErrValidation = validator.ErrValidation
)
