// ABOUTME: Unified Storage layer that wraps the session and preference stores
// ABOUTME: One database file holds everything the client persists between runs
package sqlite

import (
	"fmt"
)

// Storage manages all persistent client data using SQLite
type Storage struct {
	db          *DB
	sessions    *SessionStore
	preferences *PreferenceStore
}

// NewStorage initializes storage at the default path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates storage with an in-memory database (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:          db,
		sessions:    NewSessionStore(db),
		preferences: NewPreferenceStore(db),
	}
}

// Sessions returns the session store. It satisfies httpclient.TokenStore.
func (s *Storage) Sessions() *SessionStore {
	return s.sessions
}

func (s *Storage) Preferences() *PreferenceStore {
	return s.preferences
}

// DB returns the underlying database
func (s *Storage) DB() *DB {
	return s.db
}

// Close closes the storage
func (s *Storage) Close() error {
	return s.db.Close()
}
