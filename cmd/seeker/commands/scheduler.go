package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/scheduler"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the job scheduler in the foreground",
	Long: `Starts the cron scheduler with the daily pipeline and weekly
maintenance jobs and blocks until interrupted.

Example:
  seeker scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scheduler ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched := scheduler.New(d.log)

	pipelineJob := jobs.NewDailyPipelineJob(d.pipelineRunner(), d.cfg.PipelineSchedule, d.log)
	if err := sched.AddJob(pipelineJob); err != nil {
		return fmt.Errorf("failed to register pipeline job: %w", err)
	}

	maintenanceJob := jobs.NewMaintenanceJob(d.housekeeper(), d.log)
	if err := sched.AddJob(maintenanceJob); err != nil {
		return fmt.Errorf("failed to register maintenance job: %w", err)
	}

	sched.Start()
	fmt.Printf("✅ Scheduler running with jobs: %v\n", sched.JobNames())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
