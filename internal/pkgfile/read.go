package pkgfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cardbox/cardbox/internal/domain"
)

// Read loads and validates a package file.
func Read(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package: %w", err)
	}

	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package: %w", err)
	}

	if err := validate(&pkg); err != nil {
		return nil, fmt.Errorf("invalid package: %w", err)
	}

	return &pkg, nil
}

func validate(pkg *Package) error {
	if pkg.Meta.SchemaVersion < 1 {
		return fmt.Errorf("invalid schema_version: %d", pkg.Meta.SchemaVersion)
	}
	if pkg.Meta.SchemaVersion > SchemaVersion {
		return fmt.Errorf("unsupported schema_version: %d", pkg.Meta.SchemaVersion)
	}

	for i := range pkg.Notetypes {
		if err := domain.ValidateNotetype(&pkg.Notetypes[i]); err != nil {
			return err
		}
	}
	for i := range pkg.Notes {
		if err := domain.ValidateNote(&pkg.Notes[i]); err != nil {
			return err
		}
	}

	// Notes referencing notetypes absent from both the package and the
	// target are caught by the import engine, which knows the target; only
	// intra-package shape is checked here.
	return nil
}
