package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.MemberRepository
	repository.ItemRepository
	repository.TransactionRepository
	repository.SettingsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		MemberRepository:      NewMemberRepository(db),
		ItemRepository:        NewItemRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		SettingsRepository:    NewSettingsRepository(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Members:      NewMemberRepository(db),
		Items:        NewItemRepository(db),
		Transactions: NewTransactionRepository(db),
		Settings:     NewSettingsRepository(db),
	}
}

// Repositories returns the non-transactional repositories.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Members:      s.MemberRepository,
		Items:        s.ItemRepository,
		Transactions: s.TransactionRepository,
		Settings:     s.SettingsRepository,
	}
}

// WithinTx implements repository.TxManager.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Failed to roll back transaction", "error", rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(ctx, newRepositories(tx))
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
