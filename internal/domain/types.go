package domain

import (
	"github.com/google/uuid"
)

// Outcome classifies the result of importing a single note.
type Outcome string

const (
	OutcomeNew         Outcome = "new"
	OutcomeUpdated     Outcome = "updated"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeConflicting Outcome = "conflicting"
)

// Field is a named field definition on a notetype.
type Field struct {
	Ord  int    `json:"ord"`
	Name string `json:"name"`
}

// Template is a named card template definition on a notetype.
type Template struct {
	Ord  int    `json:"ord"`
	Name string `json:"name"`
}

// Notetype describes the schema shared by a set of notes: an ordered list
// of field definitions and an ordered list of card templates.
type Notetype struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Fields    []Field    `json:"fields" db:"fields"`       // JSON in storage
	Templates []Template `json:"templates" db:"templates"` // JSON in storage
	Config    string     `json:"config,omitempty" db:"config"` // JSON; opaque styling/options
	MtimeSecs int64      `json:"mtime_secs" db:"mtime_secs"`
	USN       int        `json:"usn" db:"usn"`
}

// Note is a single record of field contents. The GUID is the durable
// cross-collection identity; the ID is unique only within one collection.
type Note struct {
	ID         int64    `json:"id" db:"id"`
	GUID       string   `json:"guid" db:"guid"`
	NotetypeID int64    `json:"notetype_id" db:"notetype_id"`
	MtimeSecs  int64    `json:"mtime_secs" db:"mtime_secs"`
	USN        int      `json:"usn" db:"usn"`
	Tags       []string `json:"tags,omitempty" db:"tags"` // space-joined in storage
	Fields     []string `json:"fields" db:"fields"`       // JSON in storage
}

// NoteMeta is a lightweight projection of a stored note, used for GUID-keyed
// lookup without loading the full record.
type NoteMeta struct {
	ID         int64
	MtimeSecs  int64
	NotetypeID int64
}

// NewGUID returns a fresh globally-unique note identity.
func NewGUID() string {
	return uuid.New().String()
}

// FieldNames returns the notetype's field names in order.
func (nt *Notetype) FieldNames() []string {
	names := make([]string, len(nt.Fields))
	for i, f := range nt.Fields {
		names[i] = f.Name
	}
	return names
}

// TemplateNames returns the notetype's template names in order.
func (nt *Notetype) TemplateNames() []string {
	names := make([]string, len(nt.Templates))
	for i, tmpl := range nt.Templates {
		names[i] = tmpl.Name
	}
	return names
}
