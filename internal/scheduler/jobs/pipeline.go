package jobs

import (
	"context"
	"fmt"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/greeks"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/pipeline"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// DailyPipelineJob runs the full analytics pipeline after the market
// close, once the day's snapshots have landed.
type DailyPipelineJob struct {
	runner   *pipeline.Runner
	schedule string
	log      *logger.Logger
}

// NewDailyPipelineJob creates the daily pipeline job.
func NewDailyPipelineJob(runner *pipeline.Runner, schedule string, log *logger.Logger) *DailyPipelineJob {
	return &DailyPipelineJob{
		runner:   runner,
		schedule: schedule,
		log:      log,
	}
}

// Name returns the job name.
func (j *DailyPipelineJob) Name() string {
	return "daily_pipeline"
}

// Schedule returns the configured cron expression.
func (j *DailyPipelineJob) Schedule() string {
	return j.schedule
}

// Run executes the pipeline over the full snapshot history. Every
// stage is idempotent, so a rerun after a failed attempt converges.
func (j *DailyPipelineJob) Run(ctx context.Context) error {
	report, err := j.runner.Run(ctx, greeks.AllDates())
	if err != nil {
		return fmt.Errorf("daily pipeline: %w", err)
	}

	j.log.WithFields(map[string]interface{}{
		"inserted_greeks": report.Greeks.Inserted,
		"feature_rows":    report.FeatureRows,
		"duration":        report.Duration,
	}).Info("Daily pipeline job finished")

	return nil
}
