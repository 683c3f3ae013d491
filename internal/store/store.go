// Package store provides the collection persistence layer, abstracting
// note/notetype storage, config access, and event logging behind one handle
// that can be bound to either the database or a single transaction.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cardbox/cardbox/internal/db"
	"github.com/cardbox/cardbox/internal/events"
)

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store is the root store that provides access to domain-specific stores.
type Store struct {
	db   *db.DB
	exec executor
	tx   *sql.Tx // non-nil when bound to a transaction

	// Domain-specific stores
	Notes     *NoteStore
	Notetypes *NotetypeStore
}

// New creates a new Store wrapping the given database connection.
func New(database *db.DB) *Store {
	s := &Store{db: database, exec: database.DB}
	s.Notes = &NoteStore{store: s}
	s.Notetypes = &NotetypeStore{store: s}
	return s
}

// DB returns the underlying database connection (for read-only queries).
func (s *Store) DB() *db.DB {
	return s.db
}

// Tx returns the bound transaction, or nil when operating directly on the
// database.
func (s *Store) Tx() *sql.Tx {
	return s.tx
}

// WithTx executes fn against a transaction-bound store. If fn returns nil,
// the transaction is committed; otherwise it is rolled back.
func (s *Store) WithTx(fn func(txStore *Store, ew *events.Writer) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	txStore := &Store{db: s.db, exec: tx, tx: tx}
	txStore.Notes = &NoteStore{store: txStore}
	txStore.Notetypes = &NotetypeStore{store: txStore}

	ew := events.NewWriter(s.db.DB)
	if err := fn(txStore, ew); err != nil {
		return err
	}

	return tx.Commit()
}

// NormalizeNoteText reports whether note field text should be Unicode
// normalized before storage.
func (s *Store) NormalizeNoteText() (bool, error) {
	var value string
	err := s.exec.QueryRow("SELECT value FROM config WHERE key = 'normalize_note_text'").Scan(&value)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read normalize_note_text: %w", err)
	}
	return value == "true", nil
}

// NextUSN advances the collection's sync generation counter and returns the
// new value.
func (s *Store) NextUSN() (int, error) {
	var usn int
	err := s.exec.QueryRow("SELECT value FROM config WHERE key = 'usn'").Scan(&usn)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to read usn: %w", err)
	}

	usn++
	_, err = s.exec.Exec(`
		INSERT INTO config (key, value) VALUES ('usn', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, usn)
	if err != nil {
		return 0, fmt.Errorf("failed to advance usn: %w", err)
	}

	return usn, nil
}

// freshID allocates an unused epoch-milliseconds identifier in the given
// table. Identifiers are time-derived, so in practice the first candidate is
// almost always free.
func freshID(exec executor, table string) (int64, error) {
	id := time.Now().UnixMilli()
	for {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table)
		if err := exec.QueryRow(query, id).Scan(&count); err != nil {
			return 0, fmt.Errorf("failed to probe %s id: %w", table, err)
		}
		if count == 0 {
			return id, nil
		}
		id++
	}
}
