package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/spreads"
)

var detectDate string

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect vertical credit spread candidates",
	Long: `Enumerates two-leg vertical credit spreads from the feature store
for one decision date, filters them against the configured thresholds
and replaces that date's stored candidates.

Without --date the latest data date in the feature store is used.

Example:
  seeker detect
  seeker detect --date 2026-05-01`,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVar(&detectDate, "date", "", "decision date (YYYY-MM-DD)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Spread Detection ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	repo := spreads.NewRepository(d.db.Pool)

	var asOf time.Time
	if detectDate != "" {
		asOf, err = parseDateFlag(detectDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	} else {
		latest, ok, err := repo.LatestDataDate(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve latest data date: %w", err)
		}
		if !ok {
			fmt.Println("⚠️  Feature store is empty, nothing to detect")
			return nil
		}
		asOf = latest
	}
	fmt.Printf("📅 Decision date: %s\n", asOf.Format("2006-01-02"))

	result, err := d.spreadDetector().Run(ctx, asOf)
	if err != nil {
		return fmt.Errorf("spread detection failed: %w", err)
	}

	fmt.Printf("✅ Candidates: %d\n", len(result.Candidates))
	for reason, count := range result.Skipped {
		fmt.Printf("⏭️  Skipped (%s): %d\n", reason, count)
	}
	return nil
}
