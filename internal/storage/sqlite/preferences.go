// ABOUTME: Durable key-value preferences such as sidebar state and onboarding tour progress
// ABOUTME: Values are stored as text; boolean helpers cover the common flag case
package sqlite

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Well-known preference keys.
const (
	KeySidebarExpanded = "sidebar_expanded"
	// KeyTourPrefix prefixes onboarding tour completion flags, e.g. "tour:decision_canvas".
	KeyTourPrefix = "tour:"
)

// TourKey is the completion flag for an onboarding tour.
func TourKey(tour string) string {
	return KeyTourPrefix + tour
}

// Preference is one stored key.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// PreferenceStore handles preference persistence
type PreferenceStore struct {
	db *DB
}

// NewPreferenceStore creates a new PreferenceStore
func NewPreferenceStore(db *DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Get returns the value for key and whether it was set.
func (s *PreferenceStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set saves or updates a preference (upsert)
func (s *PreferenceStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

// Bool reads a flag, returning def when it is unset or not a boolean.
func (s *PreferenceStore) Bool(key string, def bool) (bool, error) {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def, err
	}
	b, perr := strconv.ParseBool(v)
	if perr != nil {
		return def, nil
	}
	return b, nil
}

func (s *PreferenceStore) SetBool(key string, v bool) error {
	return s.Set(key, strconv.FormatBool(v))
}

// Delete removes a preference. Deleting a missing key is not an error.
func (s *PreferenceStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, key)
	return err
}

// List returns every preference whose key starts with prefix, ordered by key.
func (s *PreferenceStore) List(prefix string) ([]Preference, error) {
	rows, err := s.db.Query(`
		SELECT key, value, updated_at
		FROM preferences
		WHERE substr(key, 1, ?) = ?
		ORDER BY key
	`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	prefs := []Preference{}
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Key, &p.Value, &p.UpdatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// CompletedTours lists the onboarding tours marked done.
func (s *PreferenceStore) CompletedTours() ([]string, error) {
	prefs, err := s.List(KeyTourPrefix)
	if err != nil {
		return nil, err
	}
	var tours []string
	for _, p := range prefs {
		if done, _ := strconv.ParseBool(p.Value); done {
			tours = append(tours, strings.TrimPrefix(p.Key, KeyTourPrefix))
		}
	}
	return tours, nil
}
