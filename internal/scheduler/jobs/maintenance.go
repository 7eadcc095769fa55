package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/housekeeping"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// MaintenanceJob archives expired Greeks and purges junk snapshots
// weekly, keeping the live tables lean.
type MaintenanceJob struct {
	housekeeper *housekeeping.Housekeeper
	log         *logger.Logger
}

// NewMaintenanceJob creates the weekly maintenance job.
func NewMaintenanceJob(h *housekeeping.Housekeeper, log *logger.Logger) *MaintenanceJob {
	return &MaintenanceJob{housekeeper: h, log: log}
}

// Name returns the job name.
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Schedule returns the cron schedule: Sunday 3 AM.
func (j *MaintenanceJob) Schedule() string {
	return "0 0 3 * * 0"
}

// Run executes one housekeeping pass as of today.
func (j *MaintenanceJob) Run(ctx context.Context) error {
	summary, err := j.housekeeper.Run(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("maintenance: %w", err)
	}

	j.log.WithFields(map[string]interface{}{
		"archived": summary.Archived,
		"purged":   summary.Purged,
	}).Info("Maintenance job finished")

	return nil
}
