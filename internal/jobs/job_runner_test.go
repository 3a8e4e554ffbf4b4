package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/config"
	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/jobs"
	"mitramandal-backend/internal/service"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCacheService) Snapshot() cache.Snapshot {
	return cache.Snapshot{}
}

// MockAdminService implements only what jobs call; the rest panics.
type MockAdminService struct {
	mock.Mock
	service.AdminService
}

func (m *MockAdminService) AccruePrincipal(ctx context.Context) (*domain.ClubSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubSettings), args.Error(1)
}

func newRunner() (*jobs.JobRunner, *MockCacheService, *MockAdminService) {
	c := new(MockCacheService)
	a := new(MockAdminService)
	return jobs.NewJobRunner(&jobs.Services{Cache: c, Admin: a}, &config.Config{}), c, a
}

func TestJobRunner_ReloadCache(t *testing.T) {
	runner, c, _ := newRunner()
	c.On("Reload", mock.Anything).Return(nil).Once()

	runner.ReloadCache()
	c.AssertExpectations(t)
}

func TestJobRunner_ReloadCacheFailureIsContained(t *testing.T) {
	runner, c, _ := newRunner()
	c.On("Reload", mock.Anything).Return(errors.New("db down")).Once()

	assert.NotPanics(t, runner.ReloadCache)
	c.AssertExpectations(t)
}

func TestJobRunner_AccruePrincipal(t *testing.T) {
	runner, _, a := newRunner()
	a.On("AccruePrincipal", mock.Anything).Return(&domain.ClubSettings{
		DefaultPrincipalAmount:      decimal.NewFromInt(500),
		CurrentTotalPrincipalAmount: decimal.NewFromInt(1500),
	}, nil).Once()

	runner.RunAllMonthlyJobs()
	a.AssertExpectations(t)
}

func TestJobRunner_RecoversFromPanic(t *testing.T) {
	runner, _, a := newRunner()
	a.On("AccruePrincipal", mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)

	assert.NotPanics(t, runner.AccruePrincipal)
}
