package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/service"
)

// MockMemberService
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) GetMemberDetails(ctx context.Context, memberID string) (*domain.MemberDetails, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDetails), args.Error(1)
}
func (m *MockMemberService) ListMemberItems(ctx context.Context, memberID string) ([]domain.Item, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockMemberService) GetItemHistory(ctx context.Context, memberID, itemCode string) ([]domain.YearHistory, error) {
	args := m.Called(ctx, memberID, itemCode)
	return args.Get(0).([]domain.YearHistory), args.Error(1)
}
func (m *MockMemberService) EnrollMember(ctx context.Context, req service.EnrollMemberRequest) (*domain.Member, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) UpdateMember(ctx context.Context, memberID, name, mobile string) (*domain.Member, error) {
	args := m.Called(ctx, memberID, name, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) ToggleActive(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberService) ToggleItemIssued(ctx context.Context, memberID, itemCode string) (*domain.Item, error) {
	args := m.Called(ctx, memberID, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// MockItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemService) GetItem(ctx context.Context, itemCode string) (*domain.Item, error) {
	args := m.Called(ctx, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemService) ListItemTransactions(ctx context.Context, itemCode string, page, limit int32) (*domain.TransactionPage, error) {
	args := m.Called(ctx, itemCode, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionPage), args.Error(1)
}

// MockTransactionService
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, req service.TransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) UpdateTransaction(ctx context.Context, transactionID string, req service.TransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockAdminService
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) IsAdmin(ctx context.Context, memberID string) (bool, error) {
	args := m.Called(ctx, memberID)
	return args.Bool(0), args.Error(1)
}
func (m *MockAdminService) GetSettings(ctx context.Context) (*domain.ClubSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubSettings), args.Error(1)
}
func (m *MockAdminService) UpdateSettings(ctx context.Context, upd service.SettingsUpdate) (*domain.ClubSettings, error) {
	args := m.Called(ctx, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubSettings), args.Error(1)
}
func (m *MockAdminService) AccruePrincipal(ctx context.Context) (*domain.ClubSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubSettings), args.Error(1)
}
func (m *MockAdminService) ToggleAdmin(ctx context.Context, memberID string) (*domain.ClubSettings, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubSettings), args.Error(1)
}
func (m *MockAdminService) SeedDefaultAdmin(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// MockCacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCacheService) Snapshot() cache.Snapshot {
	args := m.Called()
	return args.Get(0).(cache.Snapshot)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error { return p.err }
