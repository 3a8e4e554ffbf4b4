package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/ledger"
	"mitramandal-backend/internal/repository"
	"mitramandal-backend/internal/service"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var now = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func loanItem() *domain.Item {
	return &domain.Item{
		ID:                     "i1",
		Code:                   "B-1",
		MemberIDs:              []string{"m1"},
		CurrentPrincipalAmount: amt("100"),
		LoanAmount:             amt("1000"),
		IsLoanActive:           true,
		IsActive:               true,
	}
}

func newTransactionService(repos *mockRepos) (service.TransactionService, *fakeTx, *cache.ReadCache) {
	c := cache.New(0)
	tx := &fakeTx{repos: repos}
	rt := service.NewReadThrough(repos.Repositories(), c)
	svc := service.NewTransactionService(tx, rt, c, fixedClock{now: now}, &fixedIDs{txn: "01TXN"})
	return svc, tx, c
}

func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("RegularPaysDownLoan", func(t *testing.T) {
		repos := newMockRepos()
		svc, tx, c := newTransactionService(repos)

		repos.items.On("GetByCode", mock.Anything, "B-1").Return(loanItem(), nil)
		repos.items.On("GetForUpdate", mock.Anything, "i1").Return(loanItem(), nil)
		repos.members.On("Exists", mock.Anything, "m1").Return(true, nil)
		repos.transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
		repos.items.On("UpdateBalances", mock.Anything, mock.AnythingOfType("*domain.Item")).Return(nil)

		txn, err := svc.CreateTransaction(ctx, service.TransactionRequest{
			Type:               domain.TransactionTypeRegular,
			MemberIDs:          []string{"m1"},
			ItemCode:           "B-1",
			PrincipalAmount:    amt("500"),
			LoanInterestAmount: amt("10"),
			LoanEMI:            amt("200"),
			ActingMemberID:     "00000",
		})
		require.NoError(t, err)
		assert.Equal(t, "01TXN", txn.ID)
		assert.Equal(t, "i1", txn.ItemID)
		assert.Equal(t, "00000", txn.TransactionBy)
		assert.True(t, txn.TotalAmount.Equal(amt("710")))
		assert.True(t, txn.BeforeTransaction.LoanAmount.Equal(amt("1000")))
		assert.True(t, txn.BeforeTransaction.PrincipalAmount.Equal(amt("100")))
		assert.Equal(t, now, txn.CreatedAt)
		assert.Equal(t, 1, tx.commits)

		repos.items.AssertCalled(t, "UpdateBalances", mock.Anything, mock.MatchedBy(func(it *domain.Item) bool {
			return it.CurrentPrincipalAmount.Equal(amt("600")) && it.LoanAmount.Equal(amt("800")) && it.IsLoanActive
		}))

		cached, ok := c.Item("i1")
		require.True(t, ok)
		assert.True(t, cached.LoanAmount.Equal(amt("800")))
		assert.Contains(t, cached.TransactionIDs, "01TXN")
		_, ok = c.Transaction("01TXN")
		assert.True(t, ok)
	})

	t.Run("UnknownType", func(t *testing.T) {
		repos := newMockRepos()
		svc, tx, _ := newTransactionService(repos)

		_, err := svc.CreateTransaction(ctx, service.TransactionRequest{
			Type:           "REFUND",
			MemberIDs:      []string{"m1"},
			ItemCode:       "B-1",
			ActingMemberID: "00000",
		})
		assert.ErrorIs(t, err, ledger.ErrUnknownTransactionType)
		assert.Equal(t, 0, tx.commits+tx.rollbacks)
		repos.items.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		repos := newMockRepos()
		svc, _, _ := newTransactionService(repos)

		_, err := svc.CreateTransaction(ctx, service.TransactionRequest{
			Type:            domain.TransactionTypeRegular,
			MemberIDs:       []string{"m1"},
			ItemCode:        "B-1",
			PrincipalAmount: amt("-1"),
			ActingMemberID:  "00000",
		})
		assert.ErrorIs(t, err, ledger.ErrNegativeAmount)
	})

	t.Run("SubCentAmount", func(t *testing.T) {
		repos := newMockRepos()
		svc, tx, _ := newTransactionService(repos)

		_, err := svc.CreateTransaction(ctx, service.TransactionRequest{
			Type:            domain.TransactionTypeRegular,
			MemberIDs:       []string{"m1"},
			ItemCode:        "B-1",
			PrincipalAmount: amt("0.005"),
			LoanEMI:         amt("333.333"),
			ActingMemberID:  "00000",
		})
		assert.ErrorIs(t, err, ledger.ErrAmountPrecision)
		assert.Equal(t, 0, tx.commits+tx.rollbacks)
		repos.items.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
	})

	t.Run("UnknownMemberRollsBack", func(t *testing.T) {
		repos := newMockRepos()
		svc, tx, _ := newTransactionService(repos)

		repos.items.On("GetByCode", mock.Anything, "B-1").Return(loanItem(), nil)
		repos.items.On("GetForUpdate", mock.Anything, "i1").Return(loanItem(), nil)
		repos.members.On("Exists", mock.Anything, "m9").Return(false, nil)

		_, err := svc.CreateTransaction(ctx, service.TransactionRequest{
			Type:           domain.TransactionTypeLoan,
			MemberIDs:      []string{"m9"},
			ItemCode:       "B-1",
			ActingMemberID: "00000",
		})
		assert.ErrorIs(t, err, service.ErrMemberNotFound)
		assert.Equal(t, 1, tx.rollbacks)
		repos.items.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		repos := newMockRepos()
		svc, _, _ := newTransactionService(repos)

		repos.items.On("GetByCode", mock.Anything, "B-404").Return(nil, repository.ErrNotFound)

		_, err := svc.CreateTransaction(ctx, service.TransactionRequest{
			Type:           domain.TransactionTypeLoan,
			MemberIDs:      []string{"m1"},
			ItemCode:       "B-404",
			ActingMemberID: "00000",
		})
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})
}

func TestTransactionService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	svc, tx, c := newTransactionService(repos)

	stored := &domain.Transaction{
		ID:                "01OLD",
		TransactionType:   domain.TransactionTypeRegular,
		MemberIDs:         []string{"m1"},
		ItemID:            "i1",
		PrincipalAmount:   amt("500"),
		LoanEMI:           amt("200"),
		TotalAmount:       amt("700"),
		BeforeTransaction: domain.BeforeTransactionAmount{LoanAmount: amt("1000"), PrincipalAmount: amt("100")},
		CreatedAt:         now.Add(-time.Hour),
	}
	current := loanItem()
	current.CurrentPrincipalAmount = amt("600")
	current.LoanAmount = amt("800")

	repos.transactions.On("GetByID", mock.Anything, "01OLD").Return(stored, nil)
	repos.items.On("GetForUpdate", mock.Anything, "i1").Return(current, nil)
	repos.transactions.On("Update", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	repos.items.On("UpdateBalances", mock.Anything, mock.AnythingOfType("*domain.Item")).Return(nil)

	txn, err := svc.UpdateTransaction(ctx, "01OLD", service.TransactionRequest{
		Type:            domain.TransactionTypeRegular,
		PrincipalAmount: amt("300"),
		LoanEMI:         amt("200"),
		ActingMemberID:  "00000",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, "01OLD", txn.ID)
	assert.Equal(t, []string{"m1"}, txn.MemberIDs)
	assert.True(t, txn.TotalAmount.Equal(amt("500")))
	assert.True(t, txn.BeforeTransaction.PrincipalAmount.Equal(amt("100")))
	assert.True(t, txn.BeforeTransaction.LoanAmount.Equal(amt("1000")))
	assert.Equal(t, now.Add(-time.Hour), txn.CreatedAt)

	repos.items.AssertCalled(t, "UpdateBalances", mock.Anything, mock.MatchedBy(func(it *domain.Item) bool {
		return it.CurrentPrincipalAmount.Equal(amt("400")) && it.LoanAmount.Equal(amt("800"))
	}))

	cached, ok := c.Transaction("01OLD")
	require.True(t, ok)
	assert.True(t, cached.PrincipalAmount.Equal(amt("300")))
}

func TestTransactionService_UpdateDeletedTransaction(t *testing.T) {
	repos := newMockRepos()
	svc, _, _ := newTransactionService(repos)

	repos.transactions.On("GetByID", mock.Anything, "01OLD").
		Return(&domain.Transaction{ID: "01OLD", ItemID: "i1", IsDeleted: true}, nil)

	_, err := svc.UpdateTransaction(context.Background(), "01OLD", service.TransactionRequest{
		Type:           domain.TransactionTypeLoan,
		ActingMemberID: "00000",
	})
	assert.ErrorIs(t, err, service.ErrTransactionNotFound)
	repos.items.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestTransactionService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repos := newMockRepos()
		svc, tx, c := newTransactionService(repos)
		c.PutTransaction(domain.Transaction{ID: "01OLD", ItemID: "i1"})

		repos.transactions.On("GetByID", mock.Anything, "01OLD").
			Return(&domain.Transaction{ID: "01OLD", TransactionType: domain.TransactionTypeLoan}, nil)
		repos.transactions.On("SoftDelete", mock.Anything, "01OLD").Return(nil)

		require.NoError(t, svc.DeleteTransaction(ctx, "01OLD"))
		assert.Equal(t, 1, tx.commits)
		_, ok := c.Transaction("01OLD")
		assert.False(t, ok)
		repos.items.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		repos := newMockRepos()
		svc, _, _ := newTransactionService(repos)

		repos.transactions.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

		err := svc.DeleteTransaction(ctx, "missing")
		assert.ErrorIs(t, err, service.ErrTransactionNotFound)
	})
}
