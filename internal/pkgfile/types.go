// Package pkgfile reads and writes collection package files: the JSON
// container a collection's notes and notetypes travel in between instances.
// Extraction of media file contents is handled elsewhere; the package only
// carries the media name-resolution map.
package pkgfile

import (
	"github.com/cardbox/cardbox/internal/domain"
)

// SchemaVersion is the current package file schema version.
const SchemaVersion = 1

// Package is the decoded contents of a collection package file.
type Package struct {
	Meta      Meta              `json:"meta"`
	Notetypes []domain.Notetype `json:"notetypes,omitempty"`
	Notes     []domain.Note     `json:"notes,omitempty"`
	// Media maps normalized source filenames to the filenames resolved for
	// use in the target collection.
	Media map[string]string `json:"media,omitempty"`
}

// Meta contains package metadata.
type Meta struct {
	SchemaVersion int    `json:"schema_version"`
	GeneratedAt   string `json:"generated_at,omitempty"`
	SourcePath    string `json:"source_path,omitempty"`
}
