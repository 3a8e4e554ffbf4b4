package http

import (
	"github.com/shopspring/decimal"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/service"
)

type transactionRequest struct {
	TransactionType           string          `json:"transactionType" validate:"required"`
	MemberIDs                 []string        `json:"userID" validate:"omitempty,dive,required"`
	ItemCode                  string          `json:"bookID"`
	PrincipalAmount           decimal.Decimal `json:"principalAmount"`
	LoanInterestAmount        decimal.Decimal `json:"loanInterestAmount"`
	LoanEMI                   decimal.Decimal `json:"loanEMI"`
	PenaltyAmount             decimal.Decimal `json:"penaltyAmount"`
	AmountReturned            decimal.Decimal `json:"amountReturned"`
	ReturnedAmountDescription string          `json:"returnedAmountDescription" validate:"max=500"`
	SettlementAmount          decimal.Decimal `json:"settlementAmount"`
	LoanTakenAmount           decimal.Decimal `json:"loanAmount"`
}

func (r transactionRequest) toService(actingMemberID string) service.TransactionRequest {
	return service.TransactionRequest{
		Type:                      domain.TransactionType(r.TransactionType),
		MemberIDs:                 r.MemberIDs,
		ItemCode:                  r.ItemCode,
		PrincipalAmount:           r.PrincipalAmount,
		LoanInterestAmount:        r.LoanInterestAmount,
		LoanEMI:                   r.LoanEMI,
		PenaltyAmount:             r.PenaltyAmount,
		AmountReturned:            r.AmountReturned,
		ReturnedAmountDescription: r.ReturnedAmountDescription,
		SettlementAmount:          r.SettlementAmount,
		LoanTakenAmount:           r.LoanTakenAmount,
		ActingMemberID:            actingMemberID,
	}
}

type enrollMemberRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Mobile      string   `json:"mobileNumber" validate:"required,numeric,len=10"`
	ItemCodes   []string `json:"bookIDs" validate:"omitempty,dive,required,max=50"`
	CreateItems bool     `json:"createBooks"`
}

type updateMemberRequest struct {
	Name   string `json:"name" validate:"omitempty,max=100"`
	Mobile string `json:"mobileNumber" validate:"omitempty,numeric,len=10"`
}

type settingsRequest struct {
	InterestPerMonth            *decimal.Decimal `json:"interestPerMonth"`
	DefaultPrincipalAmount      *decimal.Decimal `json:"defaultPrincipalAmount"`
	CurrentTotalPrincipalAmount *decimal.Decimal `json:"currentTotalPrincipalAmount"`
	DateOfEMI                   *int             `json:"dateOfEMI" validate:"omitempty,min=1,max=31"`
}
