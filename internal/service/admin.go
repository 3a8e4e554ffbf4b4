package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/ledger"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository"
)

// The member created on an empty store so that someone can administer it.
const (
	DefaultAdminID     = "00000"
	DefaultAdminName   = "Admin"
	DefaultAdminMobile = "0000000000"
)

type adminService struct {
	repos repository.Repositories
	tx    repository.TxManager
}

func NewAdminService(repos repository.Repositories, tx repository.TxManager) AdminService {
	return &adminService{repos: repos, tx: tx}
}

func defaultSettings() *domain.ClubSettings {
	return &domain.ClubSettings{AdminMemberIDs: []string{}, DateOfEMI: domain.DefaultDateOfEMI}
}

// loadSettings returns the stored settings, or the defaults when none are
// stored yet.
func loadSettings(ctx context.Context, repo repository.SettingsRepository) (*domain.ClubSettings, error) {
	settings, err := repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return defaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

func (s *adminService) IsAdmin(ctx context.Context, memberID string) (bool, error) {
	settings, err := loadSettings(ctx, s.repos.Settings)
	if err != nil {
		return false, err
	}
	return settings.IsAdmin(memberID), nil
}

func (s *adminService) GetSettings(ctx context.Context) (*domain.ClubSettings, error) {
	return loadSettings(ctx, s.repos.Settings)
}

func (s *adminService) UpdateSettings(ctx context.Context, upd SettingsUpdate) (*domain.ClubSettings, error) {
	logger.EnterMethod("adminService.UpdateSettings")

	if err := upd.validate(); err != nil {
		logger.ExitMethodWithError("adminService.UpdateSettings", err)
		return nil, err
	}

	var saved *domain.ClubSettings
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		settings, err := loadSettings(ctx, repos.Settings)
		if err != nil {
			return err
		}
		if upd.InterestPerMonth != nil {
			settings.InterestPerMonth = *upd.InterestPerMonth
		}
		if upd.DefaultPrincipalAmount != nil {
			settings.DefaultPrincipalAmount = *upd.DefaultPrincipalAmount
		}
		if upd.CurrentTotalPrincipalAmount != nil {
			settings.CurrentTotalPrincipalAmount = *upd.CurrentTotalPrincipalAmount
		}
		if upd.DateOfEMI != nil {
			settings.DateOfEMI = *upd.DateOfEMI
		}
		if err := repos.Settings.Save(ctx, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		saved = settings
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.UpdateSettings", err)
		return nil, err
	}

	logger.ExitMethod("adminService.UpdateSettings")
	return saved, nil
}

func (u SettingsUpdate) validate() error {
	for _, v := range []struct {
		name   string
		value  *decimal.Decimal
		places int32
	}{
		{"interestPerMonth", u.InterestPerMonth, 3},
		{"defaultPrincipalAmount", u.DefaultPrincipalAmount, ledger.AmountPlaces},
		{"currentTotalPrincipalAmount", u.CurrentTotalPrincipalAmount, ledger.AmountPlaces},
	} {
		if v.value == nil {
			continue
		}
		if v.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidRequest, v.name)
		}
		if !v.value.Equal(v.value.Round(v.places)) {
			return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidRequest, v.name, v.places)
		}
	}
	if u.DateOfEMI != nil && (*u.DateOfEMI < 1 || *u.DateOfEMI > 31) {
		return fmt.Errorf("%w: dateOfEMI must be between 1 and 31", ErrInvalidRequest)
	}
	return nil
}

// AccruePrincipal adds one month's default principal to the club total.
func (s *adminService) AccruePrincipal(ctx context.Context) (*domain.ClubSettings, error) {
	logger.EnterMethod("adminService.AccruePrincipal")

	settings, err := s.repos.Settings.AccruePrincipal(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrSettingsMissing
		} else {
			err = fmt.Errorf("failed to accrue principal: %w", err)
		}
		logger.ExitMethodWithError("adminService.AccruePrincipal", err)
		return nil, err
	}

	logger.ExitMethod("adminService.AccruePrincipal", "current_total", settings.CurrentTotalPrincipalAmount.String())
	return settings, nil
}

// ToggleAdmin grants or revokes admin rights. The last admin cannot be
// revoked.
func (s *adminService) ToggleAdmin(ctx context.Context, memberID string) (*domain.ClubSettings, error) {
	logger.EnterMethod("adminService.ToggleAdmin", "member_id", memberID)

	var saved *domain.ClubSettings
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		exists, err := repos.Members.Exists(ctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to check member: %w", err)
		}
		if !exists {
			return ErrMemberNotFound
		}

		settings, err := loadSettings(ctx, repos.Settings)
		if err != nil {
			return err
		}
		if settings.IsAdmin(memberID) {
			if len(settings.AdminMemberIDs) == 1 {
				return ErrLastAdmin
			}
			settings.AdminMemberIDs = slices.DeleteFunc(slices.Clone(settings.AdminMemberIDs),
				func(id string) bool { return id == memberID })
		} else {
			settings.AdminMemberIDs = append(settings.AdminMemberIDs, memberID)
		}

		if err := repos.Settings.Save(ctx, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		saved = settings
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.ToggleAdmin", err)
		return nil, err
	}

	logger.ExitMethod("adminService.ToggleAdmin", "admins", len(saved.AdminMemberIDs))
	return saved, nil
}

// SeedDefaultAdmin creates the default admin member when the store has no
// members. It reports whether it created one.
func (s *adminService) SeedDefaultAdmin(ctx context.Context) (bool, error) {
	var seeded bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		count, err := repos.Members.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}
		if count > 0 {
			return nil
		}

		admin := &domain.Member{
			ID:       DefaultAdminID,
			Name:     DefaultAdminName,
			Mobile:   DefaultAdminMobile,
			IsActive: true,
		}
		if err := repos.Members.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create default admin: %w", err)
		}

		settings, err := loadSettings(ctx, repos.Settings)
		if err != nil {
			return err
		}
		if !settings.IsAdmin(DefaultAdminID) {
			settings.AdminMemberIDs = append(settings.AdminMemberIDs, DefaultAdminID)
		}
		if err := repos.Settings.Save(ctx, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		logger.Info("Seeded default admin", "member_id", DefaultAdminID)
	}
	return seeded, nil
}
