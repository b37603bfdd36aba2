// Package scheduler triggers pipeline runs on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/Sujay-155/data-wareshouse/internal/pipeline"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) (pipeline.Summary, error)
}

// Scheduler runs the pipeline on a standard 5-field cron expression
// (default: daily at 11:00). A tick that fires while the previous run is
// still in flight is skipped — runs never overlap.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	runner   Runner
	logger   *slog.Logger
}

// New creates a Scheduler for the given cron expression.
func New(schedule string, runner Runner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		runner:   runner,
		logger:   logger,
	}
}

// Start registers the job and starts the cron loop. Returns an error only
// when the schedule expression is invalid. Runs inherit ctx, so cancelling
// it aborts an in-flight fetch phase on shutdown.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		summary, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.Error("scheduled run failed", "error", err)
			return
		}
		s.logger.Info("scheduled run finished", "run_id", summary.RunID, "outcome", summary.Outcome)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop halts future triggers and returns a context that is done once any
// in-flight run has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
