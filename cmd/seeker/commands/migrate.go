package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swiftclouddbs/Alpha-Seeker/pkg/config"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Applies all pending schema migrations.

Example:
  seeker migrate
  seeker migrate status`,
	RunE: runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Database Migration ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := database.Migrate(cfg); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("✅ Migrations applied")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	version, err := database.MigrationStatus(cfg)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	fmt.Printf("📊 Current schema version: %d\n", version)
	return nil
}
