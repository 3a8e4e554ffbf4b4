package service

import (
	"context"
	"fmt"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/ledger"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/metrics"
	"mitramandal-backend/internal/repository"
)

type cacheService struct {
	repos repository.Repositories
	cache *cache.ReadCache
}

func NewCacheService(repos repository.Repositories, c *cache.ReadCache) CacheService {
	return &cacheService{repos: repos, cache: c}
}

// Reload rebuilds the read cache from the store. The cache is left as it
// was when any read fails.
func (s *cacheService) Reload(ctx context.Context) error {
	logger.EnterMethod("cacheService.Reload")

	err := s.reload(ctx)
	if err != nil {
		metrics.CacheReloads.WithLabelValues("error").Inc()
		logger.ExitMethodWithError("cacheService.Reload", err)
		return err
	}
	metrics.CacheReloads.WithLabelValues("success").Inc()
	logger.ExitMethod("cacheService.Reload")
	return nil
}

func (s *cacheService) reload(ctx context.Context) error {
	members, err := s.repos.Members.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	items, err := s.repos.Items.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	txns, err := s.repos.Transactions.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	s.cache.Clear()
	for _, m := range members {
		s.cache.PutMember(m)
	}
	for _, it := range items {
		s.cache.PutItem(it)
	}
	for _, t := range txns {
		s.cache.PutTransaction(t)
	}
	for _, m := range members {
		s.cache.IndexMonthly(ledger.GroupMonthly(m.ID, txns))
	}
	s.cache.ReportSize()

	logger.Info("Read cache reloaded",
		"members", len(members), "items", len(items), "transactions", len(txns))
	return nil
}

func (s *cacheService) Snapshot() cache.Snapshot {
	return s.cache.Snapshot()
}
