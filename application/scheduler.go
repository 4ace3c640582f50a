package application

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// Sweeper drops stale in-memory rate limit windows. Implemented by limiter.FallbackCounter.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Scheduler runs the background maintenance jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *logger.CtxZapLogger
}

// NewScheduler registers the rate limit sweep every interval. Call Start to run it.
func NewScheduler(interval time.Duration, sweeper Sweeper, log *logger.CtxZapLogger) (*Scheduler, error) {
	if log == nil {
		log = logger.GetLogger("scheduler")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { sweeper.Sweep(time.Now()) }),
		gocron.WithName("rate-limit-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("register sweep job: %w", err)
	}
	return &Scheduler{scheduler: scheduler, logger: log}, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Debug("Scheduler started", zap.Int("jobs", len(s.scheduler.Jobs())))
}

// Shutdown stops the scheduler and waits for running jobs. Implements do.ShutdownerWithError.
func (s *Scheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}
	s.logger.Debug("Scheduler stopped")
	return nil
}
