package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// featuresCmd represents the features command
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Rebuild the denormalized feature store",
	Long: `Rebuilds the feature store wholesale from active Greeks rows,
their snapshots, historical volatility and the rate curve. The rebuild
replaces everything in one transaction, so a re-run against unchanged
sources yields the identical row set.

Example:
  seeker features`,
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Feature Store Rebuild ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	count, err := d.featureAssembler().Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("feature rebuild failed: %w", err)
	}

	fmt.Printf("✅ Feature store rebuilt with %d rows\n", count)
	return nil
}
