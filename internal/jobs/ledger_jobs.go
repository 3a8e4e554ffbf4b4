package jobs

import (
	"context"

	"mitramandal-backend/internal/logger"
)

// ReloadCache rebuilds the in-process read cache from the database
func (jr *JobRunner) ReloadCache() {
	jr.runWithRecovery("ReloadCache", func(ctx context.Context) error {
		return jr.services.Cache.Reload(ctx)
	})
}

// AccruePrincipal adds the default monthly principal to the club total
func (jr *JobRunner) AccruePrincipal() {
	jr.runWithRecovery("AccruePrincipal", func(ctx context.Context) error {
		settings, err := jr.services.Admin.AccruePrincipal(ctx)
		if err != nil {
			return err
		}
		logger.Info("Principal accrued",
			"default_principal", settings.DefaultPrincipalAmount.String(),
			"current_total", settings.CurrentTotalPrincipalAmount.String())
		return nil
	})
}
