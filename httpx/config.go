// Package httpx renders handler results and errors as plain JSON.
package httpx

// ErrorLoggingConfig controls logging of LayeredErrors in HandleError. Unknown errors
// are always logged.
type ErrorLoggingConfig struct {
	Enable bool `mapstructure:"enable" json:"enable"`

	// IgnoreHTTPStatus lists statuses that are never logged, e.g. 401 and 404.
	IgnoreHTTPStatus []int `mapstructure:"ignore_http_status" json:"ignore_http_status"`

	// FullErrorChain adds the wrapped cause to the log entry.
	FullErrorChain bool `mapstructure:"full_error_chain" json:"full_error_chain"`

	// LogLevel is error, warn or info.
	LogLevel string `mapstructure:"log_level" json:"log_level"`
}

// DefaultErrorLoggingConfig logs 5xx LayeredErrors with their cause.
func DefaultErrorLoggingConfig() ErrorLoggingConfig {
	return ErrorLoggingConfig{
		Enable:           true,
		IgnoreHTTPStatus: []int{400, 401, 403, 404, 422, 429},
		FullErrorChain:   true,
		LogLevel:         "warn",
	}
}
