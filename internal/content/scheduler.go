package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ErrInvalidInterval is returned for non-positive rebuild intervals.
var ErrInvalidInterval = errors.New("rebuild interval must be positive")

// Scheduler wraps a gocron scheduler running periodic rebuilds.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting rebuild scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping rebuild scheduler")
	return s.scheduler.Shutdown()
}

// SchedulePeriodicRebuild runs r.Rebuild every interval and returns the job ID.
func (s *Scheduler) SchedulePeriodicRebuild(ctx context.Context, interval time.Duration, r Rebuilder) (string, error) {
	if interval <= 0 {
		return "", ErrInvalidInterval
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.rebuild(ctx, r) }),
		gocron.WithName("content-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	slog.Info("Scheduled periodic rebuild", slog.Duration("interval", interval), slog.String("job_id", job.ID().String()))
	return job.ID().String(), nil
}

func (s *Scheduler) rebuild(ctx context.Context, r Rebuilder) {
	if ctx.Err() != nil {
		return
	}
	_, _ = r.Rebuild(ctx, TriggerSchedule)
}
