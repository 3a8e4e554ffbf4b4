package repository

import (
	"context"
	"errors"

	"mitramandal-backend/internal/domain"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	GetByCode(ctx context.Context, code string) (*domain.Item, error)
	// GetForUpdate locks the item row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.Item, error)
	UpdateBalances(ctx context.Context, item *domain.Item) error
	LinkMember(ctx context.Context, itemID, memberID string) error
	UnlinkMember(ctx context.Context, itemID, memberID string) error
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Update(ctx context.Context, txn *domain.Transaction) error
	SoftDelete(ctx context.Context, id string) error
	ListByItem(ctx context.Context, itemID string, page, pageSize int32) ([]domain.Transaction, int32, error)
	ListAllByItem(ctx context.Context, itemID string) ([]domain.Transaction, error)
	ListActive(ctx context.Context) ([]domain.Transaction, error)
	// MonthlyLatestByMember returns, per (year, month, item), the latest
	// non-deleted transaction involving the member, newest period first and
	// items ascending within a period.
	MonthlyLatestByMember(ctx context.Context, memberID string) ([]domain.MonthlyGroup, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.ClubSettings, error)
	Save(ctx context.Context, settings *domain.ClubSettings) error
	AccruePrincipal(ctx context.Context) (*domain.ClubSettings, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Members      MemberRepository
	Items        ItemRepository
	Transactions TransactionRepository
	Settings     SettingsRepository
}

// TxManager runs fn against repositories that share one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
