package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"github.com/snacktrack/snacktrack-api/retry"
)

// DefaultTimeout applies when no WithTimeout option is given.
const DefaultTimeout = 30 * time.Second

type config struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	headers   map[string]string
	queries   url.Values

	breaker *Breaker
	retry   []retry.Option

	beforeRequest func(*http.Request) error
	afterResponse func(*Response) error
}

// Option configures a Client or a single call.
type Option func(*config)

func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

func WithHeader(key, value string) Option {
	return func(c *config) {
		c.headers[key] = value
	}
}

// WithQuery adds a query parameter to every request, e.g. an API key.
func WithQuery(key, value string) Option {
	return func(c *config) {
		c.queries.Set(key, value)
	}
}

// WithTransport swaps the round tripper, e.g. for otelhttp or tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

// WithBreaker guards every call with b. Server errors and transport failures count
// against it; 4xx responses do not.
func WithBreaker(b *Breaker) Option {
	return func(c *config) {
		c.breaker = b
	}
}

// WithRetry repeats transport failures and 5xx responses up to cfg.MaxAttempts times.
// An open breaker or a cancelled context ends the loop at once.
func WithRetry(cfg retry.Config) Option {
	return func(c *config) {
		cfg.ApplyDefaults()
		if cfg.MaxAttempts <= 1 {
			c.retry = nil
			return
		}
		c.retry = cfg.Options()
	}
}

func WithBeforeRequest(fn func(*http.Request) error) Option {
	return func(c *config) {
		c.beforeRequest = fn
	}
}

func WithAfterResponse(fn func(*Response) error) Option {
	return func(c *config) {
		c.afterResponse = fn
	}
}

func newConfig() *config {
	return &config{
		timeout: DefaultTimeout,
		headers: make(map[string]string),
		queries: make(url.Values),
	}
}

func applyOptions(cfg *config, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
}
