package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cardbox/cardbox/internal/db"
	"github.com/cardbox/cardbox/internal/domain"
)

// TempDB creates a temporary migrated collection database for testing
func TempDB(t *testing.T) (*db.DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		database.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database, dbPath
}

// BasicNotetype returns a two-field, one-template notetype for testing
func BasicNotetype(id int64, name string) *domain.Notetype {
	return &domain.Notetype{
		ID:   id,
		Name: name,
		Fields: []domain.Field{
			{Ord: 0, Name: "Front"},
			{Ord: 1, Name: "Back"},
		},
		Templates: []domain.Template{
			{Ord: 0, Name: "Card 1"},
		},
		MtimeSecs: 1,
	}
}

// BasicNote returns a note bound to the given notetype for testing
func BasicNote(id int64, guid string, notetypeID int64, fields ...string) domain.Note {
	if len(fields) == 0 {
		fields = []string{"front", "back"}
	}
	return domain.Note{
		ID:         id,
		GUID:       guid,
		NotetypeID: notetypeID,
		MtimeSecs:  1,
		Fields:     fields,
	}
}

// WriteFile writes content to a file in a temporary directory
func WriteFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

// AssertNoError asserts that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

// AssertError asserts that an error is not nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

// AssertEqual asserts that two values are equal
func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("Expected %v, got %v", expected, actual)
	}
}

// AssertStringContains asserts that a string contains a substring
func AssertStringContains(t *testing.T, str, substr string) {
	t.Helper()
	if !strings.Contains(str, substr) {
		t.Fatalf("Expected string to contain %q, got %q", substr, str)
	}
}
