package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work. It receives the scheduler's context.
type Job func(ctx context.Context) error

// Scheduler runs one named job on a cron spec.
type Scheduler struct {
	cron   *cron.Cron
	name   string
	spec   string
	job    Job
	logger *slog.Logger
}

// NewScheduler validates spec (standard five fields or a descriptor such as
// @daily) and returns an idle scheduler.
func NewScheduler(name, spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		name:   name,
		spec:   spec,
		job:    job,
		logger: logger,
	}, nil
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runJob(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", s.name, err)
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Scheduler started", "job", s.name, "schedule", s.spec)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped", "job", s.name)
	return nil
}

func (s *Scheduler) runJob(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.job(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Scheduled job failed", "job", s.name, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "Scheduled job finished", "job", s.name)
}
