package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository"
)

const memberColumns = `m.id, m.name, m.mobile, m.is_active, m.created_at, m.updated_at,
	ARRAY(SELECT im.item_id FROM item_members im WHERE im.member_id = m.id ORDER BY im.item_id) AS item_ids,
	ARRAY(SELECT tm.transaction_id FROM transaction_members tm WHERE tm.member_id = m.id ORDER BY tm.transaction_id) AS transaction_ids`

type memberRepository struct {
	db DBTX
}

func NewMemberRepository(db DBTX) repository.MemberRepository {
	return &memberRepository{db: db}
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var m domain.Member
	var itemIDs, txnIDs []string
	if err := row.Scan(&m.ID, &m.Name, &m.Mobile, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		pq.Array(&itemIDs), pq.Array(&txnIDs)); err != nil {
		return nil, err
	}
	m.ItemIDs = itemIDs
	m.TransactionIDs = txnIDs
	return &m, nil
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `INSERT INTO members (id, name, mobile, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	now := time.Now().UTC()
	logger.DatabaseCall("create_member", "members", "member_id", member.ID)
	res, err := r.db.ExecContext(ctx, query, member.ID, member.Name, member.Mobile, member.IsActive, now, now)
	if err != nil {
		logger.DatabaseResult("create_member", 0, err)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("create_member", n, nil)
	member.CreatedAt = now
	member.UpdatedAt = now
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members m WHERE m.id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	return m, notFound(err)
}

func (r *memberRepository) GetByMobile(ctx context.Context, mobile string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members m WHERE m.mobile = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, mobile))
	return m, notFound(err)
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members m ORDER BY m.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `UPDATE members SET name = $2, mobile = $3, is_active = $4, updated_at = $5 WHERE id = $1`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, member.ID, member.Name, member.Mobile, member.IsActive, now)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	member.UpdatedAt = now
	return nil
}

func (r *memberRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM members`).Scan(&count)
	return count, err
}
