package domain

import (
	"fmt"
)

// NotFoundError is returned when a referenced record is missing from the
// collection. During an import it signals an inconsistent package or target
// and is always fatal to the session.
type NotFoundError struct {
	Resource string // "note" or "notetype"
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}

// ValidateNotetype checks the structural invariants of a notetype.
func ValidateNotetype(nt *Notetype) error {
	if nt.Name == "" {
		return fmt.Errorf("invalid notetype: name must not be empty")
	}
	if len(nt.Fields) == 0 {
		return fmt.Errorf("invalid notetype %q: must have at least one field", nt.Name)
	}
	if len(nt.Templates) == 0 {
		return fmt.Errorf("invalid notetype %q: must have at least one template", nt.Name)
	}
	seen := make(map[string]bool, len(nt.Fields))
	for _, f := range nt.Fields {
		if f.Name == "" {
			return fmt.Errorf("invalid notetype %q: field name must not be empty", nt.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("invalid notetype %q: duplicate field name %q", nt.Name, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// ValidateNote checks the structural invariants of a note.
func ValidateNote(n *Note) error {
	if n.GUID == "" {
		return fmt.Errorf("invalid note %d: guid must not be empty", n.ID)
	}
	if n.NotetypeID == 0 {
		return fmt.Errorf("invalid note %d: notetype id must not be zero", n.ID)
	}
	if len(n.Fields) == 0 {
		return fmt.Errorf("invalid note %d: must have at least one field", n.ID)
	}
	return nil
}
