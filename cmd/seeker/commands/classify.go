package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Flag junk option snapshots",
	Long: `Applies the data quality rules and flags junk contracts in place.

A contract is junk when the premium is missing or at the minimum tick,
IV is missing, or it shows no meaningful open interest or volume.
Re-running over unchanged data flags nothing new.

Example:
  seeker classify`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quality Classification ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := d.qualityTagger().Run(ctx)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	fmt.Printf("🏷️  Newly flagged: %d\n", summary.Flagged)
	if summary.LiquidityFlagged > 0 {
		fmt.Printf("🏷️  Liquidity pass flagged: %d\n", summary.LiquidityFlagged)
	}
	fmt.Printf("📊 Junk: %d / %d snapshots\n", summary.TotalJunk, summary.Total)
	fmt.Println("✅ Classification complete")
	return nil
}
