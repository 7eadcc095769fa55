package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupAsOf string

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Archive expired Greeks and purge junk snapshots",
	Long: `Moves Greeks rows of expired contracts into the archive table and
deletes junk-flagged snapshots that no Greeks row references.

Example:
  seeker cleanup
  seeker cleanup --as-of 2026-05-01`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().StringVar(&cleanupAsOf, "as-of", "", "archival cutoff date (YYYY-MM-DD, default today)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Housekeeping ===")

	asOf := time.Now().UTC()
	if cleanupAsOf != "" {
		parsed, err := parseDateFlag(cleanupAsOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of: %w", err)
		}
		asOf = parsed
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := d.housekeeper().Run(ctx, asOf)
	if err != nil {
		return fmt.Errorf("housekeeping failed: %w", err)
	}

	fmt.Printf("📦 Archived Greeks rows: %d\n", summary.Archived)
	fmt.Printf("🗑️  Purged junk snapshots: %d\n", summary.Purged)
	fmt.Println("✅ Housekeeping complete")
	return nil
}
