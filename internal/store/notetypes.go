package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cardbox/cardbox/internal/domain"
)

// NotetypeStore handles notetype persistence operations.
type NotetypeStore struct {
	store *Store
}

// Get returns the notetype with the given identifier, or (nil, nil) if no
// such notetype exists.
func (ns *NotetypeStore) Get(id int64) (*domain.Notetype, error) {
	row := ns.store.exec.QueryRow(`
		SELECT id, name, fields, templates, config, mtime_secs, usn
		FROM notetypes WHERE id = ?
	`, id)

	nt, err := scanNotetype(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notetype %d: %w", id, err)
	}
	return nt, nil
}

// Add inserts a notetype under its own identifier. The identifier must be
// set and unused.
func (ns *NotetypeStore) Add(nt *domain.Notetype) error {
	if nt.ID == 0 {
		return fmt.Errorf("cannot add notetype %q without an id", nt.Name)
	}
	if err := domain.ValidateNotetype(nt); err != nil {
		return err
	}

	fieldsJSON, templatesJSON, err := marshalSchema(nt)
	if err != nil {
		return err
	}

	config := nt.Config
	if config == "" {
		config = "{}"
	}

	_, err = ns.store.exec.Exec(`
		INSERT INTO notetypes (id, name, fields, templates, config, mtime_secs, usn)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, nt.ID, nt.Name, fieldsJSON, templatesJSON, config, nt.MtimeSecs, nt.USN)
	if err != nil {
		return fmt.Errorf("failed to add notetype %q: %w", nt.Name, err)
	}

	return nil
}

// AddWithFreshID inserts a notetype under a freshly allocated identifier,
// overwriting nt.ID with the allocated value.
func (ns *NotetypeStore) AddWithFreshID(nt *domain.Notetype) error {
	id, err := freshID(ns.store.exec, "notetypes")
	if err != nil {
		return err
	}
	nt.ID = id
	return ns.Add(nt)
}

// Update overwrites the non-identity content of an existing notetype in
// place, preserving its identifier.
func (ns *NotetypeStore) Update(nt *domain.Notetype) error {
	if err := domain.ValidateNotetype(nt); err != nil {
		return err
	}

	fieldsJSON, templatesJSON, err := marshalSchema(nt)
	if err != nil {
		return err
	}

	config := nt.Config
	if config == "" {
		config = "{}"
	}

	res, err := ns.store.exec.Exec(`
		UPDATE notetypes
		SET name = ?, fields = ?, templates = ?, config = ?, mtime_secs = ?, usn = ?
		WHERE id = ?
	`, nt.Name, fieldsJSON, templatesJSON, config, nt.MtimeSecs, nt.USN, nt.ID)
	if err != nil {
		return fmt.Errorf("failed to update notetype %d: %w", nt.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check notetype update: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "notetype", ID: nt.ID}
	}

	return nil
}

// EnsureNameUnique renames the notetype by appending a numeric suffix if its
// display name is already taken by a different notetype.
func (ns *NotetypeStore) EnsureNameUnique(nt *domain.Notetype) error {
	base := nt.Name
	for suffix := 1; ; suffix++ {
		var existingID int64
		err := ns.store.exec.QueryRow(
			"SELECT id FROM notetypes WHERE name = ? AND id != ?", nt.Name, nt.ID,
		).Scan(&existingID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to check notetype name %q: %w", nt.Name, err)
		}
		nt.Name = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// All returns all notetypes ordered by identifier.
func (ns *NotetypeStore) All() ([]domain.Notetype, error) {
	rows, err := ns.store.exec.Query(`
		SELECT id, name, fields, templates, config, mtime_secs, usn
		FROM notetypes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notetypes: %w", err)
	}
	defer rows.Close()

	var notetypes []domain.Notetype
	for rows.Next() {
		nt, err := scanNotetype(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notetype: %w", err)
		}
		notetypes = append(notetypes, *nt)
	}
	return notetypes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotetype(row rowScanner) (*domain.Notetype, error) {
	var nt domain.Notetype
	var fieldsJSON, templatesJSON string

	err := row.Scan(&nt.ID, &nt.Name, &fieldsJSON, &templatesJSON, &nt.Config, &nt.MtimeSecs, &nt.USN)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &nt.Fields); err != nil {
		return nil, fmt.Errorf("failed to parse fields for notetype %d: %w", nt.ID, err)
	}
	if err := json.Unmarshal([]byte(templatesJSON), &nt.Templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates for notetype %d: %w", nt.ID, err)
	}

	return &nt, nil
}

func marshalSchema(nt *domain.Notetype) (string, string, error) {
	fieldsJSON, err := json.Marshal(nt.Fields)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal fields for notetype %q: %w", nt.Name, err)
	}
	templatesJSON, err := json.Marshal(nt.Templates)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal templates for notetype %q: %w", nt.Name, err)
	}
	return string(fieldsJSON), string(templatesJSON), nil
}
