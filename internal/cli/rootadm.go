package cli

import (
	"github.com/spf13/cobra"
)

var rootAdmCmd = &cobra.Command{
	Use:   "cardboxadm",
	Short: "Administrative CLI for cardbox collection lifecycle and imports",
	Long: `cardboxadm manages cardbox collection databases. It handles database
lifecycle (init, migrate), package export, and merging foreign packages
into a target collection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteAdmin runs the admin root command
func ExecuteAdmin() error {
	return rootAdmCmd.Execute()
}

func init() {
	// Global flags for cardboxadm
	rootAdmCmd.PersistentFlags().String("db", "", "Path to collection database (overrides CARDBOX_DB_PATH)")
	rootAdmCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}
