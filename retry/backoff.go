package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy returns the wait after the given failed attempt, starting at 1.
type BackoffStrategy interface {
	Next(attempt int) time.Duration
}

type BackoffOption func(*exponentialBackoff)

func WithMultiplier(m float64) BackoffOption {
	return func(b *exponentialBackoff) {
		if m > 1 {
			b.multiplier = m
		}
	}
}

func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *exponentialBackoff) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// WithJitter spreads each delay by up to ratio in either direction.
func WithJitter(ratio float64) BackoffOption {
	return func(b *exponentialBackoff) {
		if ratio >= 0 && ratio <= 1 {
			b.jitter = ratio
		}
	}
}

type exponentialBackoff struct {
	base       time.Duration
	multiplier float64
	maxDelay   time.Duration
	jitter     float64
}

// ExponentialBackoff waits base * multiplier^(attempt-1), capped at the max delay.
// Defaults: multiplier 2, max 30s, no jitter.
func ExponentialBackoff(base time.Duration, opts ...BackoffOption) BackoffStrategy {
	b := &exponentialBackoff{base: base, multiplier: 2, maxDelay: 30 * time.Second}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *exponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(b.base) * math.Pow(b.multiplier, float64(attempt-1))
	if delay > float64(b.maxDelay) {
		delay = float64(b.maxDelay)
	}
	if b.jitter > 0 {
		delay += delay * b.jitter * (2*rand.Float64() - 1)
	}
	return time.Duration(delay)
}

type constantBackoff time.Duration

// ConstantBackoff always waits d.
func ConstantBackoff(d time.Duration) BackoffStrategy {
	return constantBackoff(d)
}

func (c constantBackoff) Next(int) time.Duration {
	return time.Duration(c)
}
