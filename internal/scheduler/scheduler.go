package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSchedule runs the retention job nightly at 03:00 local time
const DefaultSchedule = "0 3 * * *"

const pruneTimeout = 5 * time.Minute

// RunPruner deletes audit records older than a cutoff
type RunPruner interface {
	PruneRuns(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler enforces the run history retention window. It prunes once at
// startup and then on a cron schedule.
type Scheduler struct {
	pruner    RunPruner
	retention time.Duration
	schedule  string
	logger    *logrus.Logger
	now       func() time.Time
	cron      *cron.Cron
	wg        sync.WaitGroup
	jobMutex  sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler. A retention of zero days or less
// disables pruning; an empty schedule means DefaultSchedule.
func NewScheduler(pruner RunPruner, retentionDays int, schedule string, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	if schedule == "" {
		schedule = DefaultSchedule
	}

	return &Scheduler{
		pruner:    pruner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
		cron:      cron.New(),
	}
}

// Enabled reports whether a retention window is configured
func (s *Scheduler) Enabled() bool {
	return s.retention > 0
}

// Start registers the retention job and runs a first prune in the
// background
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		s.logger.Info("Run retention disabled, scheduler not started")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runPrune); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.schedule, err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runPrune()
	}()

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Run retention scheduled")
	return nil
}

func (s *Scheduler) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	if _, err := s.PruneNow(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to prune run history")
	}
}

// PruneNow deletes runs older than the retention window
func (s *Scheduler) PruneNow(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	cutoff := s.now().Add(-s.retention)
	removed, err := s.pruner.PruneRuns(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format(time.RFC3339),
		"removed": removed,
	}).Info("Pruned run history")
	return removed, nil
}

// Stop gracefully stops the scheduler, waiting for a running prune
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
}
