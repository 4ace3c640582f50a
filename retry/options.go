// Package retry runs an operation again after transient failures, waiting a growing
// backoff between attempts.
package retry

import (
	"fmt"
	"time"
)

// Config is the file form of the retry options.
type Config struct {
	// MaxAttempts counts the first call; 1 disables retrying.
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

func (c *Config) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 1
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 2 * time.Second
	}
}

func (c Config) Validate() error {
	if c.MaxAttempts < 1 || c.MaxAttempts > 5 {
		return fmt.Errorf("retry max_attempts must be between 1 and 5, got: %d", c.MaxAttempts)
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("retry max_backoff %v is below initial_backoff %v", c.MaxBackoff, c.InitialBackoff)
	}
	return nil
}

// Options turns c into call options.
func (c Config) Options() []Option {
	c.ApplyDefaults()
	return []Option{
		MaxAttempts(c.MaxAttempts),
		Backoff(ExponentialBackoff(c.InitialBackoff, WithMaxDelay(c.MaxBackoff))),
	}
}

type options struct {
	maxAttempts int
	backoff     BackoffStrategy
	condition   Condition
	onRetry     func(attempt int, err error)
}

func defaultOptions() *options {
	return &options{
		maxAttempts: 3,
		backoff:     ExponentialBackoff(200 * time.Millisecond),
		condition:   AlwaysRetry,
	}
}

// Option configures one Do call.
type Option func(*options)

func MaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

func Backoff(b BackoffStrategy) Option {
	return func(o *options) {
		if b != nil {
			o.backoff = b
		}
	}
}

// If retries only errors cond accepts.
func If(cond Condition) Option {
	return func(o *options) {
		if cond != nil {
			o.condition = cond
		}
	}
}

// OnRetry is called before each wait with the attempt that just failed.
func OnRetry(fn func(attempt int, err error)) Option {
	return func(o *options) {
		o.onRetry = fn
	}
}
