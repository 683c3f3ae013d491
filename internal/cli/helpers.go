package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardbox/cardbox/internal/config"
	"github.com/cardbox/cardbox/internal/db"
	"github.com/cardbox/cardbox/internal/logging"
)

// exitError returns an error that will cause the CLI to exit with the given code
func exitError(code int, err error) error {
	return err
}

// loadConfigAndLogging loads config, applying the global --db and
// --log-level flag overrides, and configures the logger.
func loadConfigAndLogging(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, exitError(1, fmt.Errorf("failed to load config: %w", err))
	}

	if dbPath := cmd.Flag("db").Value.String(); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if level := cmd.Flag("log-level").Value.String(); level != "" {
		cfg.LogLevel = level
	}

	logging.Setup(cfg.LogLevel)
	return cfg, nil
}

// openDatabase opens the configured collection database.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if cfg.DBPath == "" {
		return nil, exitError(2, fmt.Errorf("database path not specified (use --db flag or set CARDBOX_DB_PATH)"))
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, exitError(1, fmt.Errorf("failed to open database: %w", err))
	}
	return database, nil
}
