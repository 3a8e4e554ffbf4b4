package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository"
)

const settingsColumns = `admin_member_ids, interest_per_month, default_principal_amount,
	current_total_principal_amount, date_of_emi, updated_at`

// The club keeps a single settings row.
const settingsRowID = 1

type settingsRepository struct {
	db DBTX
}

func NewSettingsRepository(db DBTX) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func scanSettings(row rowScanner) (*domain.ClubSettings, error) {
	var s domain.ClubSettings
	var admins []string
	if err := row.Scan(pq.Array(&admins), &s.InterestPerMonth, &s.DefaultPrincipalAmount,
		&s.CurrentTotalPrincipalAmount, &s.DateOfEMI, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.AdminMemberIDs = admins
	return &s, nil
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.ClubSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM club_settings WHERE id = $1`
	s, err := scanSettings(r.db.QueryRowContext(ctx, query, settingsRowID))
	return s, notFound(err)
}

func (r *settingsRepository) Save(ctx context.Context, settings *domain.ClubSettings) error {
	query := `INSERT INTO club_settings (id, admin_member_ids, interest_per_month, default_principal_amount,
	              current_total_principal_amount, date_of_emi, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE SET
	              admin_member_ids = EXCLUDED.admin_member_ids,
	              interest_per_month = EXCLUDED.interest_per_month,
	              default_principal_amount = EXCLUDED.default_principal_amount,
	              current_total_principal_amount = EXCLUDED.current_total_principal_amount,
	              date_of_emi = EXCLUDED.date_of_emi,
	              updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	logger.DatabaseCall("save_settings", "club_settings")
	_, err := r.db.ExecContext(ctx, query, settingsRowID, pq.Array(settings.AdminMemberIDs), settings.InterestPerMonth,
		settings.DefaultPrincipalAmount, settings.CurrentTotalPrincipalAmount, settings.DateOfEMI, now)
	if err != nil {
		logger.DatabaseResult("save_settings", 0, err)
		return err
	}
	settings.UpdatedAt = now
	logger.DatabaseResult("save_settings", 1, nil)
	return nil
}

// AccruePrincipal adds the default principal to the club total in one statement.
func (r *settingsRepository) AccruePrincipal(ctx context.Context) (*domain.ClubSettings, error) {
	query := `UPDATE club_settings
	          SET current_total_principal_amount = current_total_principal_amount + default_principal_amount,
	              updated_at = $2
	          WHERE id = $1
	          RETURNING ` + settingsColumns
	s, err := scanSettings(r.db.QueryRowContext(ctx, query, settingsRowID, time.Now().UTC()))
	return s, notFound(err)
}
