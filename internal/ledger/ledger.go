// Package ledger holds the pure balance arithmetic of the club ledger: the
// per-transaction transition applied to an item, its inverse used when a
// transaction is corrected, and the monthly rollup of a member's history.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mitramandal-backend/internal/domain"
)

var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrAmountPrecision        = errors.New("amount has more than two decimal places")
)

// AmountPlaces is the number of decimal places stored for every amount.
const AmountPlaces = 2

// Clock supplies the current time for period calculations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the wall clock, in UTC.
func SystemClock() Clock { return systemClock{} }

// Validate rejects inputs that must never reach Apply.
func Validate(in domain.TransactionInput) error {
	if !in.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, in.Type)
	}
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"principalAmount", in.PrincipalAmount},
		{"loanInterestAmount", in.LoanInterestAmount},
		{"loanEMI", in.LoanEMI},
		{"penaltyAmount", in.PenaltyAmount},
		{"amountReturned", in.AmountReturned},
		{"settlementAmount", in.SettlementAmount},
		{"loanAmount", in.LoanTakenAmount},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeAmount, a.name)
		}
		if !a.value.Equal(a.value.Round(AmountPlaces)) {
			return fmt.Errorf("%w: %s", ErrAmountPrecision, a.name)
		}
	}
	return nil
}

// TotalAmount is what the member pays for one transaction.
func TotalAmount(in domain.TransactionInput) decimal.Decimal {
	return in.PrincipalAmount.
		Add(in.LoanInterestAmount).
		Add(in.LoanEMI).
		Add(in.PenaltyAmount)
}
