// ABOUTME: Session persistence: the bearer token and signed-in user in a singleton row
// ABOUTME: SessionStore satisfies the HTTP client's TokenStore so logins survive restarts
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tripnara/tripnara-go/internal/models"
)

// SessionStore handles session persistence. The token is cached in memory after the first read
// because the HTTP client asks for it on every request.
type SessionStore struct {
	db *DB

	mu     sync.RWMutex
	loaded bool
	token  string
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Token returns the stored bearer token, or "" when signed out or unreadable.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.token
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		var token string
		err := s.db.QueryRow(`SELECT access_token FROM session WHERE id = 1`).Scan(&token)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return ""
		}
		s.token, s.loaded = token, true
	}
	return s.token
}

// SetToken replaces the token and keeps the stored user.
func (s *SessionStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO session (id, access_token, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			updated_at = excluded.updated_at
	`, token, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	s.token, s.loaded = token, true
	return nil
}

// Clear signs out: both the token and the user are removed.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.token, s.loaded = "", true
	return nil
}

// Save stores a complete login result.
func (s *SessionStore) Save(sess models.Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO session (id, access_token, user_json, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			user_json = excluded.user_json,
			updated_at = excluded.updated_at
	`, sess.AccessToken, string(userJSON), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.token, s.loaded = sess.AccessToken, true
	return nil
}

// User returns the signed-in user, or nil when there is none.
func (s *SessionStore) User() (*models.User, error) {
	var userJSON sql.NullString
	err := s.db.QueryRow(`SELECT user_json FROM session WHERE id = 1`).Scan(&userJSON)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && (!userJSON.Valid || userJSON.String == "")) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(userJSON.String), &u); err != nil {
		return nil, fmt.Errorf("stored user is corrupt: %w", err)
	}
	return &u, nil
}

// UpdatedAt is when the session row last changed; zero when there is none.
func (s *SessionStore) UpdatedAt() (time.Time, error) {
	var t time.Time
	err := s.db.QueryRow(`SELECT updated_at FROM session WHERE id = 1`).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return t, err
}
