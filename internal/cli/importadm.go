package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/cardbox/cardbox/internal/domain"
	"github.com/cardbox/cardbox/internal/events"
	"github.com/cardbox/cardbox/internal/importer"
	"github.com/cardbox/cardbox/internal/media"
	"github.com/cardbox/cardbox/internal/pkgfile"
	"github.com/cardbox/cardbox/internal/store"
)

var importAdmCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge a collection package into the target collection",
	Long: `Import merges the notetypes and notes of a collection package file into
the target collection inside a single transaction.

Notes are matched by GUID: the newer side wins, notes needing a notetype
change are flagged as conflicting, and identifier collisions are resolved
without touching existing records. Use --dry-run to validate the package
without writing, --report to write a JSON report, and --verbose to show
field diffs for duplicate and conflicting notes.`,
	RunE: runImportAdm,
}

var (
	importPackagePath string
	importReportPath  string
	importDryRun      bool
	importVerbose     bool
)

func init() {
	rootAdmCmd.AddCommand(importAdmCmd)

	importAdmCmd.Flags().StringVar(&importPackagePath, "package", "", "Package file path")
	importAdmCmd.Flags().StringVar(&importReportPath, "report", "", "Write JSON report to path")
	importAdmCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without writing")
	importAdmCmd.Flags().BoolVar(&importVerbose, "verbose", false, "Show field diffs for duplicate and conflicting notes")
}

// importReport is the JSON shape written by --report.
type importReport struct {
	Package           string            `json:"package"`
	Found             int               `json:"found"`
	New               int               `json:"new"`
	Updated           int               `json:"updated"`
	Duplicate         int               `json:"duplicate"`
	Conflicting       int               `json:"conflicting"`
	IDMap             map[int64]int64   `json:"id_map,omitempty"`
	RemappedNotetypes map[int64]int64   `json:"remapped_notetypes,omitempty"`
	Log               *importer.NoteLog `json:"log,omitempty"`
}

func runImportAdm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging(cmd)
	if err != nil {
		return err
	}

	if importPackagePath == "" {
		return exitError(2, fmt.Errorf("package path not specified (use --package)"))
	}

	pkg, err := pkgfile.Read(importPackagePath)
	if err != nil {
		return exitError(1, err)
	}

	if importDryRun {
		fmt.Printf("Package %s is valid: %d notetype(s), %d note(s), %d media file(s)\n",
			importPackagePath, len(pkg.Notetypes), len(pkg.Notes), len(pkg.Media))
		return nil
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
	if pending {
		return exitError(1, fmt.Errorf("database requires migration (run cardboxadm migrate)"))
	}

	mediaMap := media.NewUseMap()
	for name, target := range pkg.Media {
		mediaMap.Add(name, target)
	}

	s := store.New(database)
	var imports *importer.NoteImports
	var remapped map[int64]int64

	err = s.WithTx(func(txStore *store.Store, ew *events.Writer) error {
		usn, err := txStore.NextUSN()
		if err != nil {
			return err
		}
		normalize, err := txStore.NormalizeNoteText()
		if err != nil {
			return err
		}
		if cfg.NormalizeText != nil {
			normalize = *cfg.NormalizeText
		}

		if err := ew.LogImportStarted(txStore.Tx(), usn, len(pkg.Notetypes), len(pkg.Notes)); err != nil {
			return err
		}

		imp, err := importer.New(txStore, mediaMap, importer.Options{
			USN:           usn,
			NormalizeText: normalize,
			Events:        ew,
			Progress: func(done int) error {
				fmt.Fprintf(os.Stderr, "\rImporting notes... %d/%d", done, len(pkg.Notes))
				return nil
			},
		})
		if err != nil {
			return err
		}

		if err := imp.ImportNotetypes(pkg.Notetypes); err != nil {
			return err
		}
		if err := imp.ImportNotes(pkg.Notes); err != nil {
			return err
		}

		imports = imp.Imports()
		remapped = imp.RemappedNotetypes()

		counts := map[string]int{"found": imports.Log.Found}
		counts[string(domain.OutcomeNew)] = len(imports.Log.New)
		counts[string(domain.OutcomeUpdated)] = len(imports.Log.Updated)
		counts[string(domain.OutcomeDuplicate)] = len(imports.Log.Duplicate)
		counts[string(domain.OutcomeConflicting)] = len(imports.Log.Conflicting)
		return ew.LogImportCompleted(txStore.Tx(), counts)
	})
	if len(pkg.Notes) > 0 {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return exitError(1, fmt.Errorf("import failed: %w", err))
	}

	report := &importReport{
		Package:           importPackagePath,
		Found:             imports.Log.Found,
		New:               len(imports.Log.New),
		Updated:           len(imports.Log.Updated),
		Duplicate:         len(imports.Log.Duplicate),
		Conflicting:       len(imports.Log.Conflicting),
		IDMap:             imports.IDMap,
		RemappedNotetypes: remapped,
		Log:               &imports.Log,
	}

	if cfg.Output == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return exitError(1, fmt.Errorf("failed to encode report: %w", err))
		}
		fmt.Println(string(data))
	} else {
		printImportSummary(imports, remapped)
	}

	if importVerbose {
		if err := printImportDiffs(s, imports); err != nil {
			return exitError(1, err)
		}
	}

	if importReportPath != "" {
		if err := writeImportReport(importReportPath, report); err != nil {
			return exitError(1, err)
		}
		fmt.Printf("Report written to %s\n", importReportPath)
	}

	return nil
}

func printImportSummary(imports *importer.NoteImports, remapped map[int64]int64) {
	fmt.Printf("Notes found in package: %d\n", imports.Log.Found)
	fmt.Printf("  new:         %d\n", len(imports.Log.New))
	fmt.Printf("  updated:     %d\n", len(imports.Log.Updated))
	fmt.Printf("  duplicate:   %d\n", len(imports.Log.Duplicate))
	fmt.Printf("  conflicting: %d\n", len(imports.Log.Conflicting))
	if len(remapped) > 0 {
		fmt.Printf("Notetypes re-created due to schema changes: %d\n", len(remapped))
	}
}

// printImportDiffs renders unified diffs between the logged field snapshots
// of duplicate/conflicting notes and the fields stored in the target.
func printImportDiffs(s *store.Store, imports *importer.NoteImports) error {
	guids, err := s.Notes.GUIDMap()
	if err != nil {
		return err
	}

	sections := []struct {
		outcome domain.Outcome
		notes   []importer.LogNote
	}{
		{domain.OutcomeDuplicate, imports.Log.Duplicate},
		{domain.OutcomeConflicting, imports.Log.Conflicting},
	}

	for _, section := range sections {
		for _, logNote := range section.notes {
			meta, ok := guids[logNote.GUID]
			if !ok {
				continue
			}
			existing, err := s.Notes.Get(meta.ID)
			if err != nil {
				return err
			}
			if existing == nil {
				continue
			}

			diff := difflib.UnifiedDiff{
				A:        difflib.SplitLines(strings.Join(existing.Fields, "\n")),
				B:        difflib.SplitLines(strings.Join(logNote.Fields, "\n")),
				FromFile: fmt.Sprintf("target note %d", existing.ID),
				ToFile:   fmt.Sprintf("package note (%s)", section.outcome),
				Context:  2,
			}
			diffText, err := difflib.GetUnifiedDiffString(diff)
			if err != nil {
				return fmt.Errorf("failed to render diff for note %d: %w", existing.ID, err)
			}
			if diffText != "" {
				fmt.Printf("\n%s note %s:\n%s", section.outcome, logNote.GUID, diffText)
			}
		}
	}

	return nil
}

func writeImportReport(path string, report *importReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
