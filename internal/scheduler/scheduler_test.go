package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mitramandal-backend/internal/config"
	"mitramandal-backend/internal/jobs"
	"mitramandal-backend/internal/scheduler"
)

func TestNewScheduler_RegistersConfiguredJobs(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		Enabled:         true,
		ReloadCache:     "0 0 2 * * *",
		AccruePrincipal: "0 0 0 1 * *",
	}}
	s := scheduler.NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
	assert.Equal(t, 2, s.Entries())
	assert.True(t, s.IsRunning())
}

func TestNewScheduler_SkipsEmptyAndInvalidSpecs(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		ReloadCache:     "",
		AccruePrincipal: "not a cron spec",
	}}
	s := scheduler.NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
	assert.Equal(t, 0, s.Entries())
	assert.False(t, s.IsRunning())
}

func TestScheduler_StartStop(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{AccruePrincipal: "0 0 0 1 * *"}}
	s := scheduler.NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
	s.Start()
	s.Stop()
	assert.Equal(t, 1, s.Entries())
}
