// Package errcode provides layered error codes shared by every SnackTrack package.
// Code format: MMBBBB (MM = module code, BBBB = business code).
package errcode

import (
	"errors"
	"fmt"
	"net/http"
)

// LayeredError is a tagged error kind. Two LayeredErrors are the same kind when their
// codes match, so callers branch with errors.Is against the package-level sentinels.
type LayeredError struct {
	module     string
	code       int
	msgKey     string
	msg        string
	httpStatus int
	data       map[string]any
	cause      error
}

// New creates an error kind. httpStatus defaults to 500.
func New(moduleCode, businessCode int, module, msgKey, msg string, httpStatus ...int) *LayeredError {
	status := http.StatusInternalServerError
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &LayeredError{
		module:     module,
		code:       moduleCode*10000 + businessCode,
		msgKey:     msgKey,
		msg:        msg,
		httpStatus: status,
		data:       make(map[string]any),
	}
}

func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code returns the full MMBBBB code.
func (e *LayeredError) Code() int { return e.code }

// Module returns the owning module name.
func (e *LayeredError) Module() string { return e.module }

// MsgKey returns the message key.
func (e *LayeredError) MsgKey() string { return e.msgKey }

// Message returns the user-facing message without the cause.
func (e *LayeredError) Message() string { return e.msg }

// HTTPStatus returns the status the HTTP layer renders this error with.
func (e *LayeredError) HTTPStatus() int { return e.httpStatus }

// Data returns attached context data.
func (e *LayeredError) Data() map[string]any { return e.data }

// Cause returns the wrapped error, if any.
func (e *LayeredError) Cause() error { return e.cause }

func (e *LayeredError) Unwrap() error { return e.cause }

// WithMsg returns a copy carrying msg.
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := *e
	clone.msg = msg
	return &clone
}

// WithMsgf returns a copy carrying the formatted message.
func (e *LayeredError) WithMsgf(format string, args ...any) *LayeredError {
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// WithData returns a copy with key set in its data.
func (e *LayeredError) WithData(key string, value any) *LayeredError {
	clone := *e
	clone.data = make(map[string]any, len(e.data)+1)
	for k, v := range e.data {
		clone.data[k] = v
	}
	clone.data[key] = value
	return &clone
}

// Wrap returns a copy with cause attached. A nil cause returns e unchanged.
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Wrapf attaches cause and replaces the message.
func (e *LayeredError) Wrapf(cause error, format string, args ...any) *LayeredError {
	clone := e.WithMsgf(format, args...)
	clone.cause = cause
	return clone
}

// Is compares by code.
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *LayeredError) String() string {
	if e.cause != nil {
		return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s, cause:%v}", e.code, e.module, e.msg, e.cause)
	}
	return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s}", e.code, e.module, e.msg)
}

// As extracts the outermost LayeredError from err's chain.
func As(err error) (*LayeredError, bool) {
	var layered *LayeredError
	if errors.As(err, &layered) {
		return layered, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	if layered, ok := As(err); ok {
		return layered.HTTPStatus()
	}
	return http.StatusInternalServerError
}
