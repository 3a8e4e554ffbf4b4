package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository"
)

const transactionColumns = `t.id, t.transaction_type, t.item_id, t.principal_amount, t.loan_interest_amount,
	t.loan_emi, t.penalty_amount, t.amount_returned, t.returned_amount_description, t.settlement_amount,
	t.loan_taken_amount, t.total_amount, t.before_loan_amount, t.before_principal_amount,
	t.transaction_by, t.is_deleted, t.created_at, t.updated_at,
	ARRAY(SELECT tm.member_id FROM transaction_members tm WHERE tm.transaction_id = t.id ORDER BY tm.member_id) AS member_ids`

const periodYear = `EXTRACT(YEAR FROM t.created_at AT TIME ZONE 'UTC')`
const periodMonth = `EXTRACT(MONTH FROM t.created_at AT TIME ZONE 'UTC')`

type transactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// scanTransaction scans the transaction columns after any leading dest values.
func scanTransaction(row rowScanner, leading ...any) (*domain.Transaction, error) {
	var t domain.Transaction
	var memberIDs []string
	dest := append(leading,
		&t.ID, &t.TransactionType, &t.ItemID, &t.PrincipalAmount, &t.LoanInterestAmount,
		&t.LoanEMI, &t.PenaltyAmount, &t.AmountReturned, &t.ReturnedAmountDescription, &t.SettlementAmount,
		&t.LoanTakenAmount, &t.TotalAmount, &t.BeforeTransaction.LoanAmount, &t.BeforeTransaction.PrincipalAmount,
		&t.TransactionBy, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt,
		pq.Array(&memberIDs))
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t.MemberIDs = memberIDs
	return &t, nil
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// Create inserts the transaction and its member links. Call it inside a
// transaction.
func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	query := `INSERT INTO transactions (id, transaction_type, item_id, principal_amount, loan_interest_amount,
	              loan_emi, penalty_amount, amount_returned, returned_amount_description, settlement_amount,
	              loan_taken_amount, total_amount, before_loan_amount, before_principal_amount,
	              transaction_by, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	txn.UpdatedAt = txn.CreatedAt

	logger.DatabaseCall("create_transaction", "transactions", "transaction_id", txn.ID, "item_id", txn.ItemID)
	_, err := r.db.ExecContext(ctx, query, txn.ID, txn.TransactionType, txn.ItemID, txn.PrincipalAmount,
		txn.LoanInterestAmount, txn.LoanEMI, txn.PenaltyAmount, txn.AmountReturned, txn.ReturnedAmountDescription,
		txn.SettlementAmount, txn.LoanTakenAmount, txn.TotalAmount, txn.BeforeTransaction.LoanAmount,
		txn.BeforeTransaction.PrincipalAmount, txn.TransactionBy, txn.IsDeleted, txn.CreatedAt, txn.UpdatedAt)
	if err != nil {
		logger.DatabaseResult("create_transaction", 0, err)
		return err
	}

	linkQuery := `INSERT INTO transaction_members (transaction_id, member_id)
	              SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, linkQuery, txn.ID, pq.Array(txn.MemberIDs)); err != nil {
		logger.DatabaseResult("create_transaction", 0, err)
		return err
	}
	logger.DatabaseResult("create_transaction", 1, nil)
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	return t, notFound(err)
}

func (r *transactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	query := `UPDATE transactions SET transaction_type = $2, principal_amount = $3, loan_interest_amount = $4,
	              loan_emi = $5, penalty_amount = $6, amount_returned = $7, returned_amount_description = $8,
	              settlement_amount = $9, loan_taken_amount = $10, total_amount = $11, before_loan_amount = $12,
	              before_principal_amount = $13, transaction_by = $14, updated_at = $15
	          WHERE id = $1 AND is_deleted = FALSE`
	now := time.Now().UTC()
	logger.DatabaseCall("update_transaction", "transactions", "transaction_id", txn.ID)
	res, err := r.db.ExecContext(ctx, query, txn.ID, txn.TransactionType, txn.PrincipalAmount, txn.LoanInterestAmount,
		txn.LoanEMI, txn.PenaltyAmount, txn.AmountReturned, txn.ReturnedAmountDescription, txn.SettlementAmount,
		txn.LoanTakenAmount, txn.TotalAmount, txn.BeforeTransaction.LoanAmount, txn.BeforeTransaction.PrincipalAmount,
		txn.TransactionBy, now)
	if err != nil {
		logger.DatabaseResult("update_transaction", 0, err)
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	txn.UpdatedAt = now
	logger.DatabaseResult("update_transaction", 1, nil)
	return nil
}

func (r *transactionRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, time.Now().UTC())
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *transactionRepository) ListByItem(ctx context.Context, itemID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (int64(page) - 1) * int64(pageSize)
	query := `SELECT ` + transactionColumns + `
	          FROM transactions t WHERE t.item_id = $1 AND t.is_deleted = FALSE
	          ORDER BY t.created_at DESC, t.id DESC LIMIT $2 OFFSET $3`
	txns, err := r.queryTransactions(ctx, query, itemID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM transactions WHERE item_id = $1 AND is_deleted = FALSE`
	if err := r.db.QueryRowContext(ctx, countQuery, itemID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return txns, count, nil
}

func (r *transactionRepository) ListAllByItem(ctx context.Context, itemID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
	          FROM transactions t WHERE t.item_id = $1 AND t.is_deleted = FALSE
	          ORDER BY t.created_at DESC, t.id DESC`
	return r.queryTransactions(ctx, query, itemID)
}

func (r *transactionRepository) ListActive(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.is_deleted = FALSE ORDER BY t.id`
	return r.queryTransactions(ctx, query)
}

func (r *transactionRepository) MonthlyLatestByMember(ctx context.Context, memberID string) ([]domain.MonthlyGroup, error) {
	query := `SELECT g.* FROM (
	              SELECT DISTINCT ON (` + periodYear + `, ` + periodMonth + `, t.item_id)
	                     ` + periodYear + `::int AS period_year, ` + periodMonth + `::int AS period_month,
	                     ` + transactionColumns + `
	              FROM transactions t
	              JOIN transaction_members link ON link.transaction_id = t.id
	              WHERE link.member_id = $1 AND t.is_deleted = FALSE
	              ORDER BY ` + periodYear + `, ` + periodMonth + `, t.item_id, t.created_at DESC, t.id DESC
	          ) g
	          ORDER BY g.period_year DESC, g.period_month DESC, g.item_id ASC`

	logger.DatabaseCall("monthly_latest_by_member", "transactions", "member_id", memberID)
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		logger.DatabaseResult("monthly_latest_by_member", 0, err)
		return nil, err
	}
	defer rows.Close()

	var groups []domain.MonthlyGroup
	for rows.Next() {
		var year, month int
		t, err := scanTransaction(rows, &year, &month)
		if err != nil {
			return nil, err
		}
		groups = append(groups, domain.MonthlyGroup{
			Year:        year,
			Month:       time.Month(month),
			ItemID:      t.ItemID,
			Transaction: *t,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("monthly_latest_by_member", int64(len(groups)), nil)
	return groups, nil
}
