package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Condition decides whether err is worth another attempt.
type Condition func(err error) bool

// AlwaysRetry retries every error.
func AlwaysRetry(err error) bool { return err != nil }

// Permanent marks err as not retryable regardless of the condition.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// MultiError collects the error of every attempt. It unwraps to the last one.
type MultiError struct {
	Errors   []error
	Attempts int
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "retry failed: no errors"
	}
	return e.Errors[len(e.Errors)-1].Error()
}

func (e *MultiError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// AllErrors lists every attempt, one per line.
func (e *MultiError) AllErrors() string {
	var b strings.Builder
	fmt.Fprintf(&b, "retry failed after %d attempts:", e.Attempts)
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  attempt %d: %v", i+1, err)
	}
	return b.String()
}

// Attempts returns how many times the operation ran, or 0 if err did not come from Do.
func Attempts(err error) int {
	var me *MultiError
	if errors.As(err, &me) {
		return me.Attempts
	}
	return 0
}

// Do runs operation until it succeeds, the condition rejects its error, attempts run
// out or ctx is done.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	_, err := DoWithData(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	}, opts...)
	return err
}

// DoWithData is Do for operations returning a value. On failure the value of the last
// attempt is returned with the error.
func DoWithData[T any](ctx context.Context, operation func() (T, error), opts ...Option) (T, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var (
		result T
		errs   []error
	)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if len(errs) == 0 {
				return result, err
			}
			return result, &MultiError{Errors: append(errs, err), Attempts: attempt - 1}
		}

		var err error
		result, err = operation()
		if err == nil {
			return result, nil
		}
		errs = append(errs, err)

		var perm *permanentError
		if errors.As(err, &perm) || !o.condition(err) || attempt >= o.maxAttempts {
			return result, &MultiError{Errors: errs, Attempts: attempt}
		}

		if o.onRetry != nil {
			o.onRetry(attempt, err)
		}

		wait := o.backoff.Next(attempt)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			return result, &MultiError{Errors: append(errs, context.DeadlineExceeded), Attempts: attempt}
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return result, &MultiError{Errors: append(errs, ctx.Err()), Attempts: attempt}
		}
	}
}
