// Package memstore is a SQLite-backed key/value memory exposed to
// plans as a set of registered tools.
package memstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Entry is one stored memory record.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists memory entries in SQLite. Use ":memory:" for an
// ephemeral store.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory store: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS memory (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize memory store: %w", err)
	}

	log.Debug().Str("path", path).Msg("Memory store opened")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set inserts or replaces the value under key.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	_, err := s.db.Exec(
		`INSERT INTO memory (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return err
}

// Get returns the value under key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM memory WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Delete removes key, reporting whether it existed.
func (s *Store) Delete(key string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM memory WHERE key = ?`, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns entries whose key starts with prefix, ordered by key.
// An empty prefix lists everything.
func (s *Store) List(prefix string) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT key, value, updated_at FROM memory WHERE key LIKE ? || '%' ORDER BY key`,
		prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
