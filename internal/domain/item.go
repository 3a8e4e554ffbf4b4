package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a lendable unit (a "book") jointly held by one or more members.
type Item struct {
	ID                     string          `json:"_id"`
	Code                   string          `json:"bookID"`
	MemberIDs              []string        `json:"userID"`
	CurrentPrincipalAmount decimal.Decimal `json:"currentPrincipalAmount"`
	LoanAmount             decimal.Decimal `json:"loanAmount"`
	SettlementAmount       decimal.Decimal `json:"settlementAmount"`
	IsLoanActive           bool            `json:"isLoanActive"`
	TransactionIDs         []string        `json:"transactions"`
	IsActive               bool            `json:"isActive"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// ItemBalances are the running amounts a transaction mutates.
type ItemBalances struct {
	CurrentPrincipalAmount decimal.Decimal
	LoanAmount             decimal.Decimal
	SettlementAmount       decimal.Decimal
	IsLoanActive           bool
}

func (i *Item) Balances() ItemBalances {
	return ItemBalances{
		CurrentPrincipalAmount: i.CurrentPrincipalAmount,
		LoanAmount:             i.LoanAmount,
		SettlementAmount:       i.SettlementAmount,
		IsLoanActive:           i.IsLoanActive,
	}
}

func (i *Item) SetBalances(b ItemBalances) {
	i.CurrentPrincipalAmount = b.CurrentPrincipalAmount
	i.LoanAmount = b.LoanAmount
	i.SettlementAmount = b.SettlementAmount
	i.IsLoanActive = b.IsLoanActive
}

// HasMember reports whether memberID holds the item.
func (i *Item) HasMember(memberID string) bool {
	for _, id := range i.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with i.
func (i Item) Clone() Item {
	i.MemberIDs = slices.Clone(i.MemberIDs)
	i.TransactionIDs = slices.Clone(i.TransactionIDs)
	return i
}
