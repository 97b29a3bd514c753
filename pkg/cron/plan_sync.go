package cron

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"rolegate_backend/pkg/subscription"
)

// InitPlanSyncCron schedules an unattended plan catalog sync. Administrators
// can still trigger a sync by hand at any time.
func InitPlanSyncCron(svc *subscription.Service, schedule string) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		log.Info().Msg("Running scheduled plan sync")
		if err := svc.SyncPlans(); err != nil {
			log.Error().Err(err).Msg("Scheduled plan sync failed")
		}
	})

	if err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Could not initialize plan sync cron")
		return
	}

	c.Start()
}
