package application

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/snacktrack/snacktrack-api/limiter"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(time.Time) int {
	s.calls.Add(1)
	return 0
}

func TestScheduler_RunsSweep(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sweeper := &countingSweeper{}
	s, err := NewScheduler(20*time.Millisecond, sweeper, logger.Nop())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Shutdown())

	after := sweeper.calls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, sweeper.calls.Load(), "no sweeps after shutdown")
}

func TestScheduler_SweepsFallbackCounter(t *testing.T) {
	counter := limiter.NewFallbackCounter(limiter.DefaultConfig(), nil, logger.Nop())
	s, err := NewScheduler(time.Hour, counter, logger.Nop())
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Shutdown()) }()

	s.Start()
	jobs := s.scheduler.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "rate-limit-sweep", jobs[0].Name())
	require.NoError(t, jobs[0].RunNow())
}

func TestScheduler_RejectsInvalidInterval(t *testing.T) {
	_, err := NewScheduler(0, &countingSweeper{}, logger.Nop())
	assert.Error(t, err)
}
