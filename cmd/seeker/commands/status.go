package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/features"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/greeks"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/housekeeping"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/quality"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/spreads"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database health and table counts",
	Long: `Checks database connectivity and reports row counts for the main
analytics tables.

Example:
  seeker status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Alpha-Seeker Status ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	health, err := d.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	fmt.Printf("✅ Database healthy (ping %s, %d/%d conns)\n",
		health.ResponseTime.Round(time.Millisecond), health.Stats.TotalConns, health.Stats.MaxConns)

	junk, total, err := quality.NewRepository(d.db.Pool).CountJunk(ctx)
	if err != nil {
		return fmt.Errorf("failed to count snapshots: %w", err)
	}
	fmt.Printf("📊 Snapshots: %d (%d junk)\n", total, junk)

	greeksCount, err := greeks.NewRepository(d.db.Pool).Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count greeks: %w", err)
	}
	fmt.Printf("🧮 Greeks rows: %d\n", greeksCount)

	archived, err := housekeeping.NewRepository(d.db.Pool).ArchivedCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count archived greeks: %w", err)
	}
	fmt.Printf("📦 Archived Greeks rows: %d\n", archived)

	featureCount, err := features.NewRepository(d.db.Pool).CountRows(ctx)
	if err != nil {
		return fmt.Errorf("failed to count feature rows: %w", err)
	}
	fmt.Printf("🗄️  Feature rows: %d\n", featureCount)

	spreadRepo := spreads.NewRepository(d.db.Pool)
	latest, ok, err := spreadRepo.LatestDataDate(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve latest data date: %w", err)
	}
	if ok {
		candidates, err := spreadRepo.CountForDate(ctx, latest)
		if err != nil {
			return fmt.Errorf("failed to count spread candidates: %w", err)
		}
		fmt.Printf("🎯 Spread candidates on %s: %d\n", latest.Format("2006-01-02"), candidates)
	} else {
		fmt.Println("🎯 Feature store empty, no spread candidates")
	}

	return nil
}
