package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cardbox/cardbox/internal/domain"
	"github.com/cardbox/cardbox/internal/tags"
)

// NoteStore handles note persistence operations.
type NoteStore struct {
	store *Store
}

// CreateParams contains parameters for creating a new local note.
type CreateParams struct {
	GUID       string // optional: force specific GUID instead of auto-generating
	NotetypeID int64
	Fields     []string
	Tags       []string
	USN        int
}

// Create inserts a new note with a fresh identifier and (unless forced) a
// fresh GUID, returning the stored note.
func (ns *NoteStore) Create(params CreateParams) (*domain.Note, error) {
	guid := params.GUID
	if guid == "" {
		guid = domain.NewGUID()
	}

	id, err := freshID(ns.store.exec, "notes")
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		ID:         id,
		GUID:       guid,
		NotetypeID: params.NotetypeID,
		MtimeSecs:  time.Now().Unix(),
		USN:        params.USN,
		Tags:       params.Tags,
		Fields:     params.Fields,
	}

	if err := ns.Add(note); err != nil {
		return nil, err
	}
	return note, nil
}

// Get returns the note with the given identifier, or (nil, nil) if no such
// note exists.
func (ns *NoteStore) Get(id int64) (*domain.Note, error) {
	row := ns.store.exec.QueryRow(`
		SELECT id, guid, notetype_id, mtime_secs, usn, tags, fields
		FROM notes WHERE id = ?
	`, id)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note %d: %w", id, err)
	}
	return note, nil
}

// Add inserts a note under its own identifier. The identifier must be set
// and unused.
func (ns *NoteStore) Add(note *domain.Note) error {
	if note.ID == 0 {
		return fmt.Errorf("cannot add note %q without an id", note.GUID)
	}
	if err := domain.ValidateNote(note); err != nil {
		return err
	}

	fieldsJSON, err := json.Marshal(note.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields for note %d: %w", note.ID, err)
	}

	_, err = ns.store.exec.Exec(`
		INSERT INTO notes (id, guid, notetype_id, mtime_secs, usn, tags, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, note.ID, note.GUID, note.NotetypeID, note.MtimeSecs, note.USN,
		tags.Join(note.Tags), string(fieldsJSON))
	if err != nil {
		return fmt.Errorf("failed to add note %d: %w", note.ID, err)
	}

	return nil
}

// Update overwrites an existing note's content in place, preserving its
// identifier.
func (ns *NoteStore) Update(note *domain.Note) error {
	if err := domain.ValidateNote(note); err != nil {
		return err
	}

	fieldsJSON, err := json.Marshal(note.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields for note %d: %w", note.ID, err)
	}

	res, err := ns.store.exec.Exec(`
		UPDATE notes
		SET guid = ?, notetype_id = ?, mtime_secs = ?, usn = ?, tags = ?, fields = ?
		WHERE id = ?
	`, note.GUID, note.NotetypeID, note.MtimeSecs, note.USN,
		tags.Join(note.Tags), string(fieldsJSON), note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note %d: %w", note.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check note update: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "note", ID: note.ID}
	}

	return nil
}

// AllIDs returns the set of all note identifiers in the collection.
func (ns *NoteStore) AllIDs() (map[int64]struct{}, error) {
	rows, err := ns.store.exec.Query("SELECT id FROM notes")
	if err != nil {
		return nil, fmt.Errorf("failed to list note ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan note id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// GUIDMap returns a GUID-keyed index of lightweight note projections over
// the entire collection.
func (ns *NoteStore) GUIDMap() (map[string]domain.NoteMeta, error) {
	rows, err := ns.store.exec.Query("SELECT guid, id, mtime_secs, notetype_id FROM notes")
	if err != nil {
		return nil, fmt.Errorf("failed to build guid index: %w", err)
	}
	defer rows.Close()

	guids := make(map[string]domain.NoteMeta)
	for rows.Next() {
		var guid string
		var meta domain.NoteMeta
		if err := rows.Scan(&guid, &meta.ID, &meta.MtimeSecs, &meta.NotetypeID); err != nil {
			return nil, fmt.Errorf("failed to scan note meta: %w", err)
		}
		guids[guid] = meta
	}
	return guids, rows.Err()
}

// All returns all notes ordered by identifier.
func (ns *NoteStore) All() ([]domain.Note, error) {
	rows, err := ns.store.exec.Query(`
		SELECT id, guid, notetype_id, mtime_secs, usn, tags, fields
		FROM notes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var tagsStr, fieldsJSON string

	err := row.Scan(&note.ID, &note.GUID, &note.NotetypeID, &note.MtimeSecs, &note.USN, &tagsStr, &fieldsJSON)
	if err != nil {
		return nil, err
	}

	if tagsStr != "" {
		note.Tags = tags.Split(tagsStr)
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &note.Fields); err != nil {
		return nil, fmt.Errorf("failed to parse fields for note %d: %w", note.ID, err)
	}

	return &note, nil
}
