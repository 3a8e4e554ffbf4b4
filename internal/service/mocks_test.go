package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/repository"
)

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByMobile(ctx context.Context, mobile string) (*domain.Member, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockMemberRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) GetByCode(ctx context.Context, code string) (*domain.Item, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) GetForUpdate(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) ListByMember(ctx context.Context, memberID string) ([]domain.Item, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) UpdateBalances(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) LinkMember(ctx context.Context, itemID, memberID string) error {
	args := m.Called(ctx, itemID, memberID)
	return args.Error(0)
}
func (m *MockItemRepo) UnlinkMember(ctx context.Context, itemID, memberID string) error {
	args := m.Called(ctx, itemID, memberID)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) Update(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}
func (m *MockTransactionRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTransactionRepo) ListByItem(ctx context.Context, itemID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, itemID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) ListAllByItem(ctx context.Context, itemID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListActive(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) MonthlyLatestByMember(ctx context.Context, memberID string) ([]domain.MonthlyGroup, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.MonthlyGroup), args.Error(1)
}

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.ClubSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubSettings), args.Error(1)
}
func (m *MockSettingsRepo) Save(ctx context.Context, settings *domain.ClubSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
func (m *MockSettingsRepo) AccruePrincipal(ctx context.Context) (*domain.ClubSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubSettings), args.Error(1)
}

type mockRepos struct {
	members      *MockMemberRepo
	items        *MockItemRepo
	transactions *MockTransactionRepo
	settings     *MockSettingsRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		members:      new(MockMemberRepo),
		items:        new(MockItemRepo),
		transactions: new(MockTransactionRepo),
		settings:     new(MockSettingsRepo),
	}
}

func (r *mockRepos) Repositories() repository.Repositories {
	return repository.Repositories{
		Members:      r.members,
		Items:        r.items,
		Transactions: r.transactions,
		Settings:     r.settings,
	}
}

// fakeTx runs fn against the mock repositories and records the outcome.
type fakeTx struct {
	repos     *mockRepos
	commits   int
	rollbacks int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := fn(ctx, f.repos.Repositories()); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fixedIDs struct {
	txn    string
	item   string
	member []string
	next   int
}

func (f *fixedIDs) TransactionID() string { return f.txn }
func (f *fixedIDs) ItemID() string        { return f.item }
func (f *fixedIDs) MemberID() string {
	id := f.member[f.next%len(f.member)]
	f.next++
	return id
}
