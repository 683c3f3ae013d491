package events

import (
	"path/filepath"
	"testing"

	"github.com/cardbox/cardbox/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func countEvents(t *testing.T, database *db.DB, eventType string) int {
	t.Helper()
	var count int
	err := database.QueryRow(
		"SELECT COUNT(*) FROM event_log WHERE event_type = ?", eventType,
	).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	return count
}

func TestLogEventWithoutTx(t *testing.T) {
	database := setupTestDB(t)
	w := NewWriter(database.DB)

	payload := `{"k":"v"}`
	err := w.LogEvent(nil, &Event{
		ResourceType: "collection",
		EventType:    "test.event",
		Payload:      &payload,
	})
	if err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	if got := countEvents(t, database, "test.event"); got != 1 {
		t.Errorf("expected 1 event, got %d", got)
	}
}

func TestLogEventInTx(t *testing.T) {
	database := setupTestDB(t)
	w := NewWriter(database.DB)

	tx, err := database.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := w.LogImportStarted(tx, 1, 2, 3); err != nil {
		tx.Rollback()
		t.Fatalf("LogImportStarted failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if got := countEvents(t, database, "import.started"); got != 1 {
		t.Errorf("expected 1 event, got %d", got)
	}
}

func TestLogEventRolledBackWithTx(t *testing.T) {
	database := setupTestDB(t)
	w := NewWriter(database.DB)

	tx, err := database.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := w.LogNotetypeAdded(tx, 5, "Basic"); err != nil {
		tx.Rollback()
		t.Fatalf("LogNotetypeAdded failed: %v", err)
	}
	tx.Rollback()

	if got := countEvents(t, database, "notetype.added"); got != 0 {
		t.Errorf("rolled-back event should not persist, got %d", got)
	}
}

func TestNotetypeEventPayloads(t *testing.T) {
	database := setupTestDB(t)
	w := NewWriter(database.DB)

	if err := w.LogNotetypeRemapped(nil, 1, 2000, "Basic"); err != nil {
		t.Fatalf("LogNotetypeRemapped failed: %v", err)
	}

	var resourceID, payload string
	err := database.QueryRow(
		"SELECT resource_id, payload FROM event_log WHERE event_type = 'notetype.remapped'",
	).Scan(&resourceID, &payload)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if resourceID != "1" {
		t.Errorf("expected resource id of the old notetype, got %q", resourceID)
	}
	if payload == "" {
		t.Error("expected non-empty payload")
	}
}
