package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mitramandal-backend/internal/domain"
)

// Apply returns the balances after one transaction. It does not validate
// amounts; call Validate first.
func Apply(current domain.ItemBalances, in domain.TransactionInput) (domain.ItemBalances, error) {
	next := current
	switch in.Type {
	case domain.TransactionTypeLoan:
		next.LoanAmount = current.LoanAmount.Add(in.LoanTakenAmount)
		next.IsLoanActive = true
	case domain.TransactionTypeSettlement:
		// Settlement closes the loan whatever amount is left on it.
		next.SettlementAmount = in.SettlementAmount
		next.IsLoanActive = false
	case domain.TransactionTypeRegular:
		next.CurrentPrincipalAmount = current.CurrentPrincipalAmount.Add(in.PrincipalAmount)
		if current.LoanAmount.IsPositive() {
			next.LoanAmount = decimal.Max(decimal.Zero, current.LoanAmount.Sub(in.LoanEMI))
		}
		next.IsLoanActive = next.LoanAmount.IsPositive()
	default:
		return current, fmt.Errorf("%w: %q", ErrUnknownTransactionType, in.Type)
	}
	return next, nil
}

// Reverse removes the effect of a stored transaction from current. The
// transaction's BeforeTransaction snapshot bounds how much EMI the original
// application actually took off the loan.
//
// Reversing a SETTLEMENT zeroes the settlement and reopens the loan.
func Reverse(current domain.ItemBalances, txn domain.Transaction) (domain.ItemBalances, error) {
	prev := current
	switch txn.TransactionType {
	case domain.TransactionTypeLoan:
		prev.LoanAmount = decimal.Max(decimal.Zero, current.LoanAmount.Sub(txn.LoanTakenAmount))
		prev.IsLoanActive = prev.LoanAmount.IsPositive()
	case domain.TransactionTypeSettlement:
		prev.SettlementAmount = decimal.Zero
		prev.IsLoanActive = true
	case domain.TransactionTypeRegular:
		prev.CurrentPrincipalAmount = decimal.Max(decimal.Zero, current.CurrentPrincipalAmount.Sub(txn.PrincipalAmount))
		if before := txn.BeforeTransaction.LoanAmount; before.IsPositive() {
			prev.LoanAmount = current.LoanAmount.Add(decimal.Min(txn.LoanEMI, before))
		}
		prev.IsLoanActive = prev.LoanAmount.IsPositive()
	default:
		return current, fmt.Errorf("%w: %q", ErrUnknownTransactionType, txn.TransactionType)
	}
	return prev, nil
}

// Snapshot records the balances a transaction is about to be applied to.
func Snapshot(b domain.ItemBalances) domain.BeforeTransactionAmount {
	return domain.BeforeTransactionAmount{
		LoanAmount:      b.LoanAmount,
		PrincipalAmount: b.CurrentPrincipalAmount,
	}
}
