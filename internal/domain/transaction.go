package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeLoan       TransactionType = "LOAN"
	TransactionTypeRegular    TransactionType = "REGULAR"
	TransactionTypeSettlement TransactionType = "SETTLEMENT"
)

// IsValid reports whether t is one of the known ledger transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeLoan, TransactionTypeRegular, TransactionTypeSettlement:
		return true
	}
	return false
}

// BeforeTransactionAmount snapshots the item balances a transaction was applied to.
type BeforeTransactionAmount struct {
	LoanAmount      decimal.Decimal `json:"loanAmount"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
}

type Transaction struct {
	ID                        string                  `json:"_id"`
	TransactionType           TransactionType         `json:"transactionType"`
	MemberIDs                 []string                `json:"userID"`
	ItemID                    string                  `json:"bookID"`
	PrincipalAmount           decimal.Decimal         `json:"principalAmount"`
	LoanInterestAmount        decimal.Decimal         `json:"loanInterestAmount"`
	LoanEMI                   decimal.Decimal         `json:"loanEMI"`
	PenaltyAmount             decimal.Decimal         `json:"penaltyAmount"`
	AmountReturned            decimal.Decimal         `json:"amountReturned"`
	ReturnedAmountDescription string                  `json:"returnedAmountDescription,omitempty"`
	SettlementAmount          decimal.Decimal         `json:"settlementAmount"`
	LoanTakenAmount           decimal.Decimal         `json:"loanAmount"`
	TotalAmount               decimal.Decimal         `json:"totalAmount"`
	BeforeTransaction         BeforeTransactionAmount `json:"beforeTransactionAmount"`
	TransactionBy             string                  `json:"transactionBy"`
	IsDeleted                 bool                    `json:"isDeleted"`
	CreatedAt                 time.Time               `json:"createdAt"`
	UpdatedAt                 time.Time               `json:"updatedAt"`
}

// Input returns the part of the transaction that drives the balance transition.
func (t *Transaction) Input() TransactionInput {
	return TransactionInput{
		Type:               t.TransactionType,
		PrincipalAmount:    t.PrincipalAmount,
		LoanInterestAmount: t.LoanInterestAmount,
		LoanEMI:            t.LoanEMI,
		PenaltyAmount:      t.PenaltyAmount,
		AmountReturned:     t.AmountReturned,
		SettlementAmount:   t.SettlementAmount,
		LoanTakenAmount:    t.LoanTakenAmount,
	}
}

// HasMember reports whether memberID is one of the liable members.
func (t *Transaction) HasMember(memberID string) bool {
	for _, id := range t.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// TransactionInput carries the amounts submitted for one ledger event.
type TransactionInput struct {
	Type               TransactionType
	PrincipalAmount    decimal.Decimal
	LoanInterestAmount decimal.Decimal
	LoanEMI            decimal.Decimal
	PenaltyAmount      decimal.Decimal
	AmountReturned     decimal.Decimal
	SettlementAmount   decimal.Decimal
	LoanTakenAmount    decimal.Decimal
}

// TransactionPage is one page of an item's transaction history.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Page         int32         `json:"currentPage"`
	Limit        int32         `json:"limit"`
	Total        int32         `json:"totalTransactions"`
	TotalPages   int32         `json:"totalPages"`
	HasNext      bool          `json:"hasNextPage"`
	HasPrev      bool          `json:"hasPrevPage"`
}

// Clone returns a copy that shares no slices with t.
func (t Transaction) Clone() Transaction {
	t.MemberIDs = slices.Clone(t.MemberIDs)
	return t
}
