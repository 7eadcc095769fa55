package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/greeks"
)

var pipelineDate string

// pipelineCmd represents the pipeline command
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full daily analytics pipeline",
	Long: `Runs every stage in dependency order: quality classification,
historical volatility, Greeks, feature store rebuild and spread
detection. Each stage is idempotent, so a failed run can simply be
repeated.

Example:
  seeker pipeline
  seeker pipeline --date 2026-05-01`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
	pipelineCmd.Flags().StringVar(&pipelineDate, "date", "", "restrict greeks and detection to one date (YYYY-MM-DD)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Daily Pipeline ===")

	scope := greeks.AllDates()
	if pipelineDate != "" {
		date, err := parseDateFlag(pipelineDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		scope = greeks.ForDate(date)
		fmt.Printf("📅 Restricted to %s\n", date.Format("2006-01-02"))
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	report, err := d.pipelineRunner().Run(ctx, scope)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	fmt.Printf("🏷️  Junk flagged: %d\n", report.Quality.Flagged)
	fmt.Printf("📈 Volatility points: %d\n", report.VolPoints)
	fmt.Printf("🧮 Greeks inserted: %d (skipped %d)\n", report.Greeks.Inserted, report.Greeks.TotalSkipped())
	fmt.Printf("🗄️  Feature rows: %d\n", report.FeatureRows)
	if report.Spreads != nil {
		fmt.Printf("🎯 Spread candidates: %d\n", len(report.Spreads.Candidates))
	}
	fmt.Printf("✅ Pipeline finished in %s\n", report.Duration.Round(time.Millisecond))
	return nil
}
