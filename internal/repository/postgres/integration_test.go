//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	_ "embed"
	"flag"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/config"
	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/ledger"
	"mitramandal-backend/internal/repository/postgres"
	"mitramandal-backend/internal/service"
)

//go:embed schema.sql
var schema string

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "config/config.test.yaml", "path to config file")
}

func prepareDB(t *testing.T) *sql.DB {
	t.Helper()

	// Resolve the config from the package dir as well as the repo root
	finalPath := configPath
	if _, err := os.Stat(finalPath); os.IsNotExist(err) {
		altPath := filepath.Join("..", "..", "..", configPath)
		if _, err := os.Stat(altPath); err == nil {
			finalPath = altPath
		}
	}

	cfg, err := config.Load(finalPath)
	require.NoError(t, err, "failed to load config from %s", finalPath)

	var db *sql.DB
	// Retry connection as DB might still be starting up
	for range 10 {
		db, err = sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err == nil {
			if err = db.Ping(); err == nil {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}
	require.NoError(t, err, "failed to connect to database")

	_, err = db.Exec(`DROP TABLE IF EXISTS transaction_members, transactions, item_members, items, members, club_settings CASCADE`)
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func TestIntegration_ConcurrentPaymentsSerializeOnItem(t *testing.T) {
	ctx := context.Background()
	db := prepareDB(t)
	store := postgres.NewStore(db)
	repos := store.Repositories()

	c := cache.New(0)
	ids := service.NewIDGenerator()
	lookup := service.NewReadThrough(repos, c)
	txns := service.NewTransactionService(store, lookup, c, ledger.SystemClock(), ids)

	require.NoError(t, repos.Members.Create(ctx, &domain.Member{ID: "12345", Name: "Asha", Mobile: "9800000000", IsActive: true}))
	require.NoError(t, repos.Items.Create(ctx, &domain.Item{ID: "i1", Code: "B-1", MemberIDs: []string{"12345"}, IsActive: true}))

	_, err := txns.CreateTransaction(ctx, service.TransactionRequest{
		Type:            domain.TransactionTypeLoan,
		MemberIDs:       []string{"12345"},
		ItemCode:        "B-1",
		LoanTakenAmount: decimal.NewFromInt(1000),
		ActingMemberID:  "12345",
	})
	require.NoError(t, err)

	const payments = 10
	var wg sync.WaitGroup
	errs := make(chan error, payments)
	for range payments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := txns.CreateTransaction(ctx, service.TransactionRequest{
				Type:            domain.TransactionTypeRegular,
				MemberIDs:       []string{"12345"},
				ItemCode:        "B-1",
				PrincipalAmount: decimal.NewFromInt(10),
				LoanEMI:         decimal.NewFromInt(10),
				ActingMemberID:  "12345",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	item, err := repos.Items.GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.True(t, item.CurrentPrincipalAmount.Equal(decimal.NewFromInt(100)), "principal %s", item.CurrentPrincipalAmount)
	assert.True(t, item.LoanAmount.Equal(decimal.NewFromInt(900)), "loan %s", item.LoanAmount)
	assert.True(t, item.IsLoanActive)
	assert.Len(t, item.TransactionIDs, payments+1)

	groups, err := repos.Transactions.MonthlyLatestByMember(ctx, "12345")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, domain.TransactionTypeRegular, groups[0].Transaction.TransactionType)
}
