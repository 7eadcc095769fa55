package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// volatilityCmd represents the volatility command
var volatilityCmd = &cobra.Command{
	Use:   "volatility",
	Short: "Recompute historical volatility from daily closes",
	Long: `Derives annualized rolling historical volatility (10/20/30/60
trading day windows) from stored daily closes and upserts it per
(ticker, date).

Example:
  seeker volatility`,
	RunE: runVolatility,
}

func init() {
	rootCmd.AddCommand(volatilityCmd)
}

func runVolatility(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Historical Volatility ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	saved, err := d.volCalculator().Run(ctx)
	if err != nil {
		return fmt.Errorf("volatility run failed: %w", err)
	}

	fmt.Printf("✅ Upserted %d volatility points\n", saved)
	return nil
}
