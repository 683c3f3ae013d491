package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateAdmCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run any pending database migrations",
	Long: `Migrate applies any pending SQL migrations to the collection database.

Migrations are embedded in the cardboxadm binary and tracked via the
schema_migrations table. This command is safe to run multiple times - it
only applies migrations that haven't been applied yet.`,
	RunE: runMigrateAdm,
}

func init() {
	rootAdmCmd.AddCommand(migrateAdmCmd)
}

func runMigrateAdm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging(cmd)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	pending, err := database.RequiresMigration()
	if err != nil {
		return exitError(1, fmt.Errorf("failed to check migration status: %w", err))
	}

	if !pending {
		fmt.Println("Database is up to date. No migrations to apply.")
		return nil
	}

	if err := database.Migrate(); err != nil {
		return exitError(1, fmt.Errorf("failed to run migrations: %w", err))
	}

	fmt.Println("✓ Migrations applied")
	return nil
}
