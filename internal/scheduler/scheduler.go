// Package scheduler triggers prediction runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-tips/internal/service"
)

// DailyRunner runs predictions for one day
type DailyRunner interface {
	Run(ctx context.Context, day time.Time) (*service.RunResult, error)
}

// Scheduler manages scheduled prediction runs
type Scheduler struct {
	cron      *cron.Cron
	runner    DailyRunner
	logger    *logrus.Entry
	location  *time.Location
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
	now       func() time.Time
}

// NewScheduler creates a new scheduler evaluating cron expressions in loc
func NewScheduler(runner DailyRunner, loc *time.Location, logger *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithField("component", "scheduler")

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(entry))),
		),
		runner:   runner,
		logger:   entry,
		location: loc,
		jobIDs:   make([]cron.EntryID, 0),
		now:      time.Now,
	}
}

// ScheduleDailyRun schedules a run for today plus lookAheadDays following days.
// Each run is bounded by timeout.
func (s *Scheduler) ScheduleDailyRun(cronExpression string, lookAheadDays int, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if lookAheadDays < 0 {
		lookAheadDays = 0
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, _ = s.RunOnce(ctx, lookAheadDays)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron":            cronExpression,
		"look_ahead_days": lookAheadDays,
		"location":        s.location.String(),
	}).Info("Scheduled daily prediction run")

	return nil
}

// ScheduleTask schedules a named maintenance task bounded by timeout
func (s *Scheduler) ScheduleTask(cronExpression, name string, timeout time.Duration, task func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	log := s.logger.WithField("task", name)
	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := task(ctx); err != nil {
			log.WithError(err).Error("Scheduled task failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add task %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	log.WithField("cron", cronExpression).Info("Scheduled task")
	return nil
}

// RunOnce runs predictions for today and the following lookAheadDays days.
// A failed day is logged and does not stop later days.
func (s *Scheduler) RunOnce(ctx context.Context, lookAheadDays int) ([]*service.RunResult, error) {
	today := s.now().In(s.location)
	results := make([]*service.RunResult, 0, lookAheadDays+1)

	var firstErr error
	for d := 0; d <= lookAheadDays; d++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		day := today.AddDate(0, 0, d)
		log := s.logger.WithField("day", day.Format("2006-01-02"))
		log.Info("Starting scheduled prediction run")

		result, err := s.runner.Run(ctx, day)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			log.WithError(err).Error("Scheduled prediction run failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.WithField("predictions", len(result.Predictions)).Info("Scheduled prediction run completed")
	}

	return results, firstErr
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopped := s.cron.Stop()
	s.isRunning = false

	select {
	case <-stopped.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop timed out: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
