package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyGroup is the latest non-deleted transaction of one (year, month, item) period.
type MonthlyGroup struct {
	Year        int         `json:"year"`
	Month       time.Month  `json:"month"`
	ItemID      string      `json:"bookID"`
	Transaction Transaction `json:"lastTransaction"`
}

// PeriodTotals sums the representative transactions of one period.
type PeriodTotals struct {
	PrincipalAmount    decimal.Decimal `json:"principalAmount"`
	LoanInterestAmount decimal.Decimal `json:"loanInterestAmount"`
	LoanEMI            decimal.Decimal `json:"loanEMI"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	AmountReturned     decimal.Decimal `json:"amountReturned"`
	PenaltyAmount      decimal.Decimal `json:"penaltyAmount"`
	SettlementAmount   decimal.Decimal `json:"settlementAmount"`
}

type Summary struct {
	TotalPrincipalAmount   decimal.Decimal `json:"totalPrincipleAmount"`
	TotalLoanAmount        decimal.Decimal `json:"totalLoanAmount"`
	TotalSettlementAmount  decimal.Decimal `json:"totalSettlementAmount"`
	LastTransactionDate    *time.Time      `json:"lastTransactionDate"`
	LastTransactionDetails PeriodTotals    `json:"lastTransactionDetails"`
}

// MonthHistory lists an item's transactions for one month, newest first.
type MonthHistory struct {
	Month        string        `json:"month"`
	Transactions []Transaction `json:"transactions"`
}

type YearHistory struct {
	Year   int            `json:"year"`
	Months []MonthHistory `json:"months"`
}
