package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

// Event is one row in the collection's audit event log.
type Event struct {
	ResourceType string
	ResourceID   string
	EventType    string
	Payload      *string // JSON
}

// Writer handles writing events to the event log
type Writer struct {
	db *sql.DB
}

// NewWriter creates a new event writer
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// LogEvent writes an event to the event log
func (w *Writer) LogEvent(tx *sql.Tx, event *Event) error {
	query := `
		INSERT INTO event_log (resource_type, resource_id, event_type, payload)
		VALUES (?, ?, ?, ?)
	`

	executor := w.getExecutor(tx)
	_, err := executor.Exec(query, event.ResourceType, event.ResourceID, event.EventType, event.Payload)
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogImportStarted logs the start of an import session
func (w *Writer) LogImportStarted(tx *sql.Tx, usn, notetypes, notes int) error {
	payload, err := json.Marshal(map[string]interface{}{
		"usn":       usn,
		"notetypes": notetypes,
		"notes":     notes,
	})
	if err != nil {
		return err
	}

	payloadStr := string(payload)
	return w.LogEvent(tx, &Event{
		ResourceType: "collection",
		EventType:    "import.started",
		Payload:      &payloadStr,
	})
}

// LogImportCompleted logs the per-outcome counts of a finished import session
func (w *Writer) LogImportCompleted(tx *sql.Tx, counts map[string]int) error {
	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}

	payloadStr := string(payload)
	return w.LogEvent(tx, &Event{
		ResourceType: "collection",
		EventType:    "import.completed",
		Payload:      &payloadStr,
	})
}

// LogNotetypeAdded logs a notetype insertion
func (w *Writer) LogNotetypeAdded(tx *sql.Tx, id int64, name string) error {
	payload, err := json.Marshal(map[string]interface{}{"name": name})
	if err != nil {
		return err
	}

	payloadStr := string(payload)
	return w.LogEvent(tx, &Event{
		ResourceType: "notetype",
		ResourceID:   strconv.FormatInt(id, 10),
		EventType:    "notetype.added",
		Payload:      &payloadStr,
	})
}

// LogNotetypeUpdated logs an in-place notetype overwrite
func (w *Writer) LogNotetypeUpdated(tx *sql.Tx, id int64, name string) error {
	payload, err := json.Marshal(map[string]interface{}{"name": name})
	if err != nil {
		return err
	}

	payloadStr := string(payload)
	return w.LogEvent(tx, &Event{
		ResourceType: "notetype",
		ResourceID:   strconv.FormatInt(id, 10),
		EventType:    "notetype.updated",
		Payload:      &payloadStr,
	})
}

// LogNotetypeRemapped logs a schema-drift remap to a fresh identifier
func (w *Writer) LogNotetypeRemapped(tx *sql.Tx, oldID, newID int64, name string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"name":   name,
		"new_id": newID,
	})
	if err != nil {
		return err
	}

	payloadStr := string(payload)
	return w.LogEvent(tx, &Event{
		ResourceType: "notetype",
		ResourceID:   strconv.FormatInt(oldID, 10),
		EventType:    "notetype.remapped",
		Payload:      &payloadStr,
	})
}

// getExecutor returns the appropriate executor (tx or db)
func (w *Writer) getExecutor(tx *sql.Tx) interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
} {
	if tx != nil {
		return tx
	}
	return w.db
}
