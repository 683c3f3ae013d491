package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardbox/cardbox/internal/db"
	"github.com/cardbox/cardbox/internal/domain"
	"github.com/cardbox/cardbox/internal/store"
)

var initAdmCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a collection database",
	Long: `Init creates the SQLite collection database, runs migrations, and seeds
the default "Basic" notetype.

This command is safe to run against an existing database; it only applies
pending migrations in that case.`,
	RunE: runInitAdm,
}

func init() {
	rootAdmCmd.AddCommand(initAdmCmd)
}

func runInitAdm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging(cmd)
	if err != nil {
		return err
	}

	// Check if database already exists
	dbExists := false
	if _, err := os.Stat(cfg.DBPath); err == nil {
		dbExists = true
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return exitError(1, fmt.Errorf("failed to run migrations: %w", err))
	}

	if !dbExists {
		if err := seedDefaultNotetype(database); err != nil {
			return exitError(1, fmt.Errorf("failed to seed database: %w", err))
		}

		fmt.Printf("✓ Initialized new collection at %s\n", cfg.DBPath)
		fmt.Printf("✓ Seeded default notetype: Basic\n")
	} else {
		fmt.Printf("✓ Collection already initialized at %s\n", cfg.DBPath)
		fmt.Printf("✓ Migrations applied\n")
	}

	return nil
}

func seedDefaultNotetype(database *db.DB) error {
	s := store.New(database)

	basic := &domain.Notetype{
		Name: "Basic",
		Fields: []domain.Field{
			{Ord: 0, Name: "Front"},
			{Ord: 1, Name: "Back"},
		},
		Templates: []domain.Template{
			{Ord: 0, Name: "Card 1"},
		},
		MtimeSecs: time.Now().Unix(),
	}

	return s.Notetypes.AddWithFreshID(basic)
}
