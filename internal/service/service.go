package service

import (
	"context"

	"github.com/shopspring/decimal"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/domain"
)

type MemberService interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, memberID string) (*domain.Member, error)
	GetMemberDetails(ctx context.Context, memberID string) (*domain.MemberDetails, error)
	ListMemberItems(ctx context.Context, memberID string) ([]domain.Item, error)
	GetItemHistory(ctx context.Context, memberID, itemCode string) ([]domain.YearHistory, error)
	EnrollMember(ctx context.Context, req EnrollMemberRequest) (*domain.Member, error)
	UpdateMember(ctx context.Context, memberID, name, mobile string) (*domain.Member, error)
	ToggleActive(ctx context.Context, memberID string) (*domain.Member, error)
	ToggleItemIssued(ctx context.Context, memberID, itemCode string) (*domain.Item, error)
}

type ItemService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, itemCode string) (*domain.Item, error)
	ListItemTransactions(ctx context.Context, itemCode string, page, limit int32) (*domain.TransactionPage, error)
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, req TransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, req TransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
}

type AdminService interface {
	IsAdmin(ctx context.Context, memberID string) (bool, error)
	GetSettings(ctx context.Context) (*domain.ClubSettings, error)
	UpdateSettings(ctx context.Context, upd SettingsUpdate) (*domain.ClubSettings, error)
	AccruePrincipal(ctx context.Context) (*domain.ClubSettings, error)
	ToggleAdmin(ctx context.Context, memberID string) (*domain.ClubSettings, error)
	SeedDefaultAdmin(ctx context.Context) (bool, error)
}

type CacheService interface {
	Reload(ctx context.Context) error
	Snapshot() cache.Snapshot
}

// TransactionRequest is an admin's submission of one ledger event.
type TransactionRequest struct {
	Type                      domain.TransactionType
	MemberIDs                 []string
	ItemCode                  string
	PrincipalAmount           decimal.Decimal
	LoanInterestAmount        decimal.Decimal
	LoanEMI                   decimal.Decimal
	PenaltyAmount             decimal.Decimal
	AmountReturned            decimal.Decimal
	ReturnedAmountDescription string
	SettlementAmount          decimal.Decimal
	LoanTakenAmount           decimal.Decimal
	ActingMemberID            string
}

func (r TransactionRequest) Input() domain.TransactionInput {
	return domain.TransactionInput{
		Type:               r.Type,
		PrincipalAmount:    r.PrincipalAmount,
		LoanInterestAmount: r.LoanInterestAmount,
		LoanEMI:            r.LoanEMI,
		PenaltyAmount:      r.PenaltyAmount,
		AmountReturned:     r.AmountReturned,
		SettlementAmount:   r.SettlementAmount,
		LoanTakenAmount:    r.LoanTakenAmount,
	}
}

// EnrollMemberRequest registers a member and the items issued to them.
type EnrollMemberRequest struct {
	Name   string
	Mobile string
	// ItemCodes are linked to the new member; with CreateItems they are
	// created first.
	ItemCodes   []string
	CreateItems bool
}

// SettingsUpdate carries the club settings to change; nil fields are kept.
type SettingsUpdate struct {
	InterestPerMonth            *decimal.Decimal
	DefaultPrincipalAmount      *decimal.Decimal
	CurrentTotalPrincipalAmount *decimal.Decimal
	DateOfEMI                   *int
}
