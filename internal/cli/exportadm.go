package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardbox/cardbox/internal/pkgfile"
	"github.com/cardbox/cardbox/internal/store"
)

var exportAdmCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the collection out as a package file",
	Long: `Export snapshots every notetype and note in the collection into a
package file that can later be merged into another collection with
the import command.`,
	RunE: runExportAdm,
}

var exportOutPath string

func init() {
	rootAdmCmd.AddCommand(exportAdmCmd)

	exportAdmCmd.Flags().StringVar(&exportOutPath, "out", "", "Output package path")
}

func runExportAdm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging(cmd)
	if err != nil {
		return err
	}

	if exportOutPath == "" {
		return exitError(2, fmt.Errorf("output path not specified (use --out)"))
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	s := store.New(database)
	pkg, err := pkgfile.Build(s)
	if err != nil {
		return exitError(1, fmt.Errorf("failed to build package: %w", err))
	}

	if err := pkgfile.Write(pkg, exportOutPath); err != nil {
		return exitError(1, err)
	}

	fmt.Printf("✓ Exported %d notetype(s) and %d note(s) to %s\n",
		len(pkg.Notetypes), len(pkg.Notes), exportOutPath)
	return nil
}
