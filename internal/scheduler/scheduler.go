package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work. Its error is logged, never fatal.
type Job func(ctx context.Context) error

// Scheduler runs a job right away and then every interval until the context
// is cancelled. A tick that arrives while the previous run is still going
// is dropped, not queued.
type Scheduler struct {
	interval time.Duration
	job      Job
	logger   *zap.Logger
}

func New(interval time.Duration, job Job, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{interval: interval, job: job, logger: logger}
}

// Run blocks until ctx is done and any running job has returned.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("schedule interval must be positive")
	}

	cron := gocron.NewScheduler(time.UTC)
	cron.SetMaxConcurrentJobs(1, gocron.RescheduleMode)

	_, err := cron.Every(s.interval).Do(func() {
		s.logger.Info("scheduled run triggered")
		if err := s.job(ctx); err != nil {
			s.logger.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	cron.StartAsync()

	<-ctx.Done()

	cron.Stop()
	s.logger.Info("scheduler stopped")
	return nil
}
