package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/greeks"
)

var greeksDate string

// greeksCmd represents the greeks command
var greeksCmd = &cobra.Command{
	Use:   "greeks",
	Short: "Compute Black-Scholes Greeks for eligible snapshots",
	Long: `Runs the Greeks batch over snapshots with a premium and IV that
are not flagged junk. The batch is idempotent: at most one Greeks row
exists per (contract, data date), and re-runs converge.

Example:
  seeker greeks
  seeker greeks --date 2026-05-01`,
	RunE: runGreeks,
}

func init() {
	rootCmd.AddCommand(greeksCmd)
	greeksCmd.Flags().StringVar(&greeksDate, "date", "", "restrict to one data date (YYYY-MM-DD)")
}

func runGreeks(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Greeks Batch ===")

	scope := greeks.AllDates()
	if greeksDate != "" {
		date, err := parseDateFlag(greeksDate)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := d.greeksProcessor().Run(ctx, scope)
	if err != nil {
		return fmt.Errorf("greeks batch failed: %w", err)
	}

	fmt.Printf("✅ Inserted: %d\n", summary.Inserted)
	for reason, count := range summary.Skipped {
		fmt.Printf("⏭️  Skipped (%s): %d\n", reason, count)
	}
	return nil
}
