package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Task is a unit of periodic housekeeping, such as dropping idle sessions or
// pruning the interview archive.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler owns a background loop: ticks on an interval and runs each task sequentially.
type Scheduler struct {
	tasks    []Task
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs tasks at the given interval.
func NewScheduler(interval time.Duration, logger *slog.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{
		tasks:    tasks,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"tasks", len(s.tasks),
	)

	s.runAll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runAll(ctx)
		}
	}
}

// runAll runs every task once; a failing task does not stop the others.
func (s *Scheduler) runAll(ctx context.Context) {
	for _, t := range s.tasks {
		if ctx.Err() != nil {
			return
		}
		if err := t.Run(ctx); err != nil {
			s.logger.Error("scheduled task failed",
				"task", t.Name,
				"error", err,
			)
		}
	}
}
