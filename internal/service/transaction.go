package service

import (
	"context"
	"errors"
	"fmt"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/ledger"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/metrics"
	"mitramandal-backend/internal/repository"
)

type transactionService struct {
	tx     repository.TxManager
	lookup *ReadThrough
	cache  *cache.ReadCache
	clock  ledger.Clock
	ids    IDGenerator
}

func NewTransactionService(
	tx repository.TxManager,
	lookup *ReadThrough,
	c *cache.ReadCache,
	clock ledger.Clock,
	ids IDGenerator,
) TransactionService {
	return &transactionService{
		tx:     tx,
		lookup: lookup,
		cache:  c,
		clock:  clock,
		ids:    ids,
	}
}

func validateRequest(req TransactionRequest) error {
	if err := ledger.Validate(req.Input()); err != nil {
		return err
	}
	if req.ActingMemberID == "" {
		return fmt.Errorf("%w: acting admin is required", ErrInvalidRequest)
	}
	return nil
}

// CreateTransaction records a ledger event and applies it to the item's
// balances. The item row stays locked until both writes commit.
func (s *transactionService) CreateTransaction(ctx context.Context, req TransactionRequest) (*domain.Transaction, error) {
	logger.EnterMethod("transactionService.CreateTransaction", "item_code", req.ItemCode, "type", req.Type)

	if err := validateRequest(req); err != nil {
		logger.ExitMethodWithError("transactionService.CreateTransaction", err)
		return nil, err
	}
	if len(req.MemberIDs) == 0 || req.ItemCode == "" {
		err := fmt.Errorf("%w: member and item are required", ErrInvalidRequest)
		logger.ExitMethodWithError("transactionService.CreateTransaction", err)
		return nil, err
	}

	item, err := s.lookup.ItemByCode(ctx, req.ItemCode)
	if err != nil {
		logger.ExitMethodWithError("transactionService.CreateTransaction", err)
		return nil, err
	}

	in := req.Input()
	var created domain.Transaction
	var updated domain.Item
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		locked, err := repos.Items.GetForUpdate(ctx, item.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to lock item: %w", err)
		}
		for _, memberID := range req.MemberIDs {
			exists, err := repos.Members.Exists(ctx, memberID)
			if err != nil {
				return fmt.Errorf("failed to check member %s: %w", memberID, err)
			}
			if !exists {
				return fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
			}
		}

		before := locked.Balances()
		next, err := ledger.Apply(before, in)
		if err != nil {
			return err
		}

		txn := domain.Transaction{
			ID:                        s.ids.TransactionID(),
			TransactionType:           req.Type,
			MemberIDs:                 req.MemberIDs,
			ItemID:                    locked.ID,
			PrincipalAmount:           req.PrincipalAmount,
			LoanInterestAmount:        req.LoanInterestAmount,
			LoanEMI:                   req.LoanEMI,
			PenaltyAmount:             req.PenaltyAmount,
			AmountReturned:            req.AmountReturned,
			ReturnedAmountDescription: req.ReturnedAmountDescription,
			SettlementAmount:          req.SettlementAmount,
			LoanTakenAmount:           req.LoanTakenAmount,
			TotalAmount:               ledger.TotalAmount(in),
			BeforeTransaction:         ledger.Snapshot(before),
			TransactionBy:             req.ActingMemberID,
			CreatedAt:                 s.clock.Now(),
		}
		if err := repos.Transactions.Create(ctx, &txn); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		locked.SetBalances(next)
		if err := repos.Items.UpdateBalances(ctx, locked); err != nil {
			return fmt.Errorf("failed to update item balances: %w", err)
		}
		locked.TransactionIDs = append(locked.TransactionIDs, txn.ID)

		created = txn
		updated = *locked
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("transactionService.CreateTransaction", err)
		return nil, err
	}

	s.cache.PutItem(updated)
	s.cache.PutTransaction(created)
	for _, memberID := range created.MemberIDs {
		s.cache.DeleteMember(memberID)
	}
	metrics.LedgerTransactions.WithLabelValues(string(created.TransactionType), "create").Inc()

	logger.ExitMethod("transactionService.CreateTransaction", "transaction_id", created.ID)
	return &created, nil
}

// UpdateTransaction corrects a stored transaction in place: its old effect is
// reversed from the item, then the corrected amounts are applied.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req TransactionRequest) (*domain.Transaction, error) {
	logger.EnterMethod("transactionService.UpdateTransaction", "transaction_id", transactionID, "type", req.Type)

	if err := validateRequest(req); err != nil {
		logger.ExitMethodWithError("transactionService.UpdateTransaction", err)
		return nil, err
	}

	in := req.Input()
	var corrected domain.Transaction
	var updated domain.Item
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		old, err := repos.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		if old.IsDeleted {
			return ErrTransactionNotFound
		}

		locked, err := repos.Items.GetForUpdate(ctx, old.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to lock item: %w", err)
		}

		base, err := ledger.Reverse(locked.Balances(), *old)
		if err != nil {
			return err
		}
		next, err := ledger.Apply(base, in)
		if err != nil {
			return err
		}

		txn := old.Clone()
		txn.TransactionType = req.Type
		txn.PrincipalAmount = req.PrincipalAmount
		txn.LoanInterestAmount = req.LoanInterestAmount
		txn.LoanEMI = req.LoanEMI
		txn.PenaltyAmount = req.PenaltyAmount
		txn.AmountReturned = req.AmountReturned
		txn.ReturnedAmountDescription = req.ReturnedAmountDescription
		txn.SettlementAmount = req.SettlementAmount
		txn.LoanTakenAmount = req.LoanTakenAmount
		txn.TotalAmount = ledger.TotalAmount(in)
		txn.BeforeTransaction = ledger.Snapshot(base)
		txn.TransactionBy = req.ActingMemberID
		if err := repos.Transactions.Update(ctx, &txn); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		locked.SetBalances(next)
		if err := repos.Items.UpdateBalances(ctx, locked); err != nil {
			return fmt.Errorf("failed to update item balances: %w", err)
		}

		corrected = txn
		updated = *locked
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("transactionService.UpdateTransaction", err)
		return nil, err
	}

	s.cache.PutItem(updated)
	s.cache.PutTransaction(corrected)
	metrics.LedgerTransactions.WithLabelValues(string(corrected.TransactionType), "update").Inc()

	logger.ExitMethod("transactionService.UpdateTransaction", "transaction_id", corrected.ID)
	return &corrected, nil
}

// DeleteTransaction flags the transaction as deleted. Item balances are
// left as they are.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	logger.EnterMethod("transactionService.DeleteTransaction", "transaction_id", transactionID)

	var txnType domain.TransactionType
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		txn, err := repos.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		txnType = txn.TransactionType
		if err := repos.Transactions.SoftDelete(ctx, transactionID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("transactionService.DeleteTransaction", err)
		return err
	}

	s.cache.DeleteTransaction(transactionID)
	metrics.LedgerTransactions.WithLabelValues(string(txnType), "delete").Inc()

	logger.ExitMethod("transactionService.DeleteTransaction")
	return nil
}
