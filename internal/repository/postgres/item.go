package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository"
)

const itemColumns = `i.id, i.code, i.current_principal_amount, i.loan_amount, i.settlement_amount,
	i.is_loan_active, i.is_active, i.created_at, i.updated_at,
	ARRAY(SELECT im.member_id FROM item_members im WHERE im.item_id = i.id ORDER BY im.member_id) AS member_ids,
	ARRAY(SELECT t.id FROM transactions t WHERE t.item_id = i.id ORDER BY t.id) AS transaction_ids`

type itemRepository struct {
	db DBTX
}

func NewItemRepository(db DBTX) repository.ItemRepository {
	return &itemRepository{db: db}
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var it domain.Item
	var memberIDs, txnIDs []string
	if err := row.Scan(&it.ID, &it.Code, &it.CurrentPrincipalAmount, &it.LoanAmount, &it.SettlementAmount,
		&it.IsLoanActive, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
		pq.Array(&memberIDs), pq.Array(&txnIDs)); err != nil {
		return nil, err
	}
	it.MemberIDs = memberIDs
	it.TransactionIDs = txnIDs
	return &it, nil
}

func (r *itemRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// Create inserts the item and links its members. Call it inside a
// transaction when the item has members.
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `INSERT INTO items (id, code, current_principal_amount, loan_amount, settlement_amount, is_loan_active, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now().UTC()
	logger.DatabaseCall("create_item", "items", "item_id", item.ID, "code", item.Code)
	_, err := r.db.ExecContext(ctx, query, item.ID, item.Code, item.CurrentPrincipalAmount, item.LoanAmount,
		item.SettlementAmount, item.IsLoanActive, item.IsActive, now, now)
	if err != nil {
		logger.DatabaseResult("create_item", 0, err)
		return err
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	if len(item.MemberIDs) > 0 {
		linkQuery := `INSERT INTO item_members (item_id, member_id)
		              SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING`
		if _, err := r.db.ExecContext(ctx, linkQuery, item.ID, pq.Array(item.MemberIDs)); err != nil {
			logger.DatabaseResult("create_item", 0, err)
			return err
		}
	}
	logger.DatabaseResult("create_item", 1, nil)
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = $1`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	return it, notFound(err)
}

func (r *itemRepository) GetByCode(ctx context.Context, code string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.code = $1`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, code))
	return it, notFound(err)
}

func (r *itemRepository) GetForUpdate(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = $1 FOR UPDATE OF i`
	logger.DatabaseCall("lock_item", "items", "item_id", id)
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	return it, notFound(err)
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM items i ORDER BY i.code`)
}

func (r *itemRepository) ListByMember(ctx context.Context, memberID string) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + `
	          FROM items i JOIN item_members link ON link.item_id = i.id
	          WHERE link.member_id = $1 ORDER BY i.code`
	return r.queryItems(ctx, query, memberID)
}

func (r *itemRepository) UpdateBalances(ctx context.Context, item *domain.Item) error {
	query := `UPDATE items SET current_principal_amount = $2, loan_amount = $3, settlement_amount = $4,
	          is_loan_active = $5, updated_at = $6 WHERE id = $1`
	now := time.Now().UTC()
	logger.DatabaseCall("update_item_balances", "items", "item_id", item.ID)
	res, err := r.db.ExecContext(ctx, query, item.ID, item.CurrentPrincipalAmount, item.LoanAmount,
		item.SettlementAmount, item.IsLoanActive, now)
	if err != nil {
		logger.DatabaseResult("update_item_balances", 0, err)
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	item.UpdatedAt = now
	logger.DatabaseResult("update_item_balances", 1, nil)
	return nil
}

func (r *itemRepository) LinkMember(ctx context.Context, itemID, memberID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO item_members (item_id, member_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, itemID, memberID)
	return err
}

func (r *itemRepository) UnlinkMember(ctx context.Context, itemID, memberID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM item_members WHERE item_id = $1 AND member_id = $2`, itemID, memberID)
	return err
}
