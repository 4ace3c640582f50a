package health

import (
	"context"
	"sync"
	"time"
)

type registered struct {
	checker  Checker
	optional bool
}

// Aggregator runs every registered checker concurrently under one timeout.
// A failing required checker makes the report unhealthy; a failing optional one only
// degrades it.
type Aggregator struct {
	checkers  []registered
	timeout   time.Duration
	mu        sync.RWMutex
	metadata  map[string]any
	reporters map[string]func() any
}

func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &Aggregator{
		timeout:   timeout,
		metadata:  make(map[string]any),
		reporters: make(map[string]func() any),
	}
}

// Register adds a required checker.
func (a *Aggregator) Register(checker Checker) {
	a.add(checker, false)
}

// RegisterOptional adds a checker whose failure the service can run without.
func (a *Aggregator) RegisterOptional(checker Checker) {
	a.add(checker, true)
}

func (a *Aggregator) add(checker Checker, optional bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers = append(a.checkers, registered{checker: checker, optional: optional})
}

// SetMetadata attaches a static key to every report.
func (a *Aggregator) SetMetadata(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metadata[key] = value
}

// Report attaches key to every report with the value fn returns at check time.
func (a *Aggregator) Report(key string, fn func() any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reporters[key] = fn
}

func (a *Aggregator) Check(ctx context.Context) *Response {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.mu.RLock()
	checkers := make([]registered, len(a.checkers))
	copy(checkers, a.checkers)
	metadata := make(map[string]any, len(a.metadata)+len(a.reporters))
	for k, v := range a.metadata {
		metadata[k] = v
	}
	for k, fn := range a.reporters {
		metadata[k] = fn()
	}
	a.mu.RUnlock()

	results := make(chan CheckResult, len(checkers))
	for _, r := range checkers {
		go func(r registered) {
			results <- checkOne(checkCtx, r)
		}(r)
	}

	checks := make(map[string]CheckResult, len(checkers))
	for range checkers {
		result := <-results
		checks[result.Name] = result
	}

	return &Response{
		Status:    overallStatus(checks),
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Checks:    checks,
		Metadata:  metadata,
	}
}

func checkOne(ctx context.Context, r registered) CheckResult {
	start := time.Now()
	result := CheckResult{Name: r.checker.Name(), Timestamp: start}

	err := r.checker.Check(ctx)
	result.Duration = time.Since(start)
	switch {
	case err == nil:
		result.Status = StatusHealthy
		result.Message = "OK"
	case r.optional:
		result.Status = StatusDegraded
		result.Error = err.Error()
		result.Message = "Running without this dependency"
	default:
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Message = "Health check failed"
	}
	return result
}

func overallStatus(checks map[string]CheckResult) Status {
	status := StatusHealthy
	for _, result := range checks {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
