package pkgfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cardbox/cardbox/internal/store"
)

// Build assembles a package from the entire contents of a collection.
func Build(s *store.Store) (*Package, error) {
	notetypes, err := s.Notetypes.All()
	if err != nil {
		return nil, err
	}
	notes, err := s.Notes.All()
	if err != nil {
		return nil, err
	}

	return &Package{
		Meta: Meta{
			SchemaVersion: SchemaVersion,
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		},
		Notetypes: notetypes,
		Notes:     notes,
	}, nil
}

// Write encodes a package deterministically (stable record order from the
// store, no HTML escaping) and writes it to path.
func Write(pkg *Package, path string) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(pkg); err != nil {
		return fmt.Errorf("failed to encode package: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write package: %w", err)
	}

	return nil
}
