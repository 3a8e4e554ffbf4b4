package service

import (
	"context"
	"fmt"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/repository"
)

type itemService struct {
	repos           repository.Repositories
	lookup          *ReadThrough
	defaultPageSize int32
	maxPageSize     int32
}

func NewItemService(repos repository.Repositories, lookup *ReadThrough, defaultPageSize, maxPageSize int32) ItemService {
	return &itemService{
		repos:           repos,
		lookup:          lookup,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (s *itemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repos.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (s *itemService) GetItem(ctx context.Context, itemCode string) (*domain.Item, error) {
	return s.lookup.ItemByCode(ctx, itemCode)
}

// ListItemTransactions pages through an item's transactions, newest first.
// Non-positive page and limit fall back to the first page and the default
// page size.
func (s *itemService) ListItemTransactions(ctx context.Context, itemCode string, page, limit int32) (*domain.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	item, err := s.lookup.ItemByCode(ctx, itemCode)
	if err != nil {
		return nil, err
	}

	txns, total, err := s.repos.Transactions.ListByItem(ctx, item.ID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list item transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}

	totalPages := (total + limit - 1) / limit
	return &domain.TransactionPage{
		Transactions: txns,
		Page:         page,
		Limit:        limit,
		Total:        total,
		TotalPages:   totalPages,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}, nil
}
