package httpclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned without contacting the upstream while the breaker is open.
var ErrCircuitOpen = errors.New("httpclient: circuit breaker is open")

// BreakerConfig trips after ConsecutiveFailures and probes again after Timeout.
type BreakerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
	Timeout             time.Duration `mapstructure:"timeout"`
	Interval            time.Duration `mapstructure:"interval"`
	MaxRequests         uint32        `mapstructure:"max_requests"`
}

func (c *BreakerConfig) ApplyDefaults() {
	if c.ConsecutiveFailures == 0 {
		c.ConsecutiveFailures = 5
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Interval == 0 {
		c.Interval = time.Minute
	}
	if c.MaxRequests == 0 {
		c.MaxRequests = 1
	}
}

// Breaker is a named circuit breaker over HTTP calls.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[*Response]
}

// serverError marks a 5xx response so it counts as a failure while the response
// itself is still returned to the caller.
type serverError struct {
	resp *Response
}

func (e *serverError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.resp.StatusCode)
}

// NewBreaker returns nil when cfg is disabled; a nil *Breaker executes directly.
func NewBreaker(name string, cfg BreakerConfig, log *logger.CtxZapLogger) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	cfg.ApplyDefaults()
	threshold := cfg.ConsecutiveFailures
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[*Response](st)}
}

// Execute runs fn under the breaker.
func (b *Breaker) Execute(fn func() (*Response, error)) (*Response, error) {
	if b == nil {
		return fn()
	}
	resp, err := b.cb.Execute(func() (*Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if resp.IsServerError() {
			return resp, &serverError{resp: resp}
		}
		return resp, nil
	})

	var se *serverError
	switch {
	case errors.As(err, &se):
		return se.resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, b.cb.Name())
	}
	return resp, err
}

// State returns closed, half-open or open.
func (b *Breaker) State() string {
	if b == nil {
		return gobreaker.StateClosed.String()
	}
	return b.cb.State().String()
}
