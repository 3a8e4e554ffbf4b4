package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"mitramandal-backend/internal/jobs"
	"mitramandal-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers the jobs that have a schedule configured
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Nightly cache rebuild
	if cfg.ReloadCache != "" {
		if _, err := s.cron.AddFunc(cfg.ReloadCache, s.jobs.ReloadCache); err != nil {
			logger.Error("Failed to register ReloadCache job", "error", err)
		}
	}

	// Monthly principal accrual
	if cfg.AccruePrincipal != "" {
		if _, err := s.cron.AddFunc(cfg.AccruePrincipal, s.jobs.AccruePrincipal); err != nil {
			logger.Error("Failed to register AccruePrincipal job", "error", err)
		}
	}

	logger.Info("Cron jobs registered", "count", len(s.cron.Entries()))
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// Entries reports how many jobs are scheduled
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
