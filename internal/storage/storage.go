// ABOUTME: Client-side persistence entry point: XDG paths, the sqlite store and an optional sync mirror
// ABOUTME: Preference writes go to sqlite first and are mirrored best-effort
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/storage/sqlite"
)

// Mirror receives preference changes for syncing elsewhere. *charm.Client satisfies it.
type Mirror interface {
	Put(key, value string) error
	Remove(key string) error
	Preferences() (map[string]string, error)
}

// Storage is the local state of one client installation
type Storage struct {
	local  *sqlite.Storage
	mirror Mirror
	logger *zap.Logger
}

// DataDir resolves the data directory, honouring XDG_DATA_HOME overrides made after start-up.
func DataDir(override string) string {
	if override != "" {
		return override
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "tripnara")
}

// Open opens the database under dataDir, or the XDG default when it is empty.
func Open(dataDir string, logger *zap.Logger) (*Storage, error) {
	path := filepath.Join(DataDir(dataDir), "tripnara.db")
	local, err := sqlite.NewStorageWithPath(path)
	if err != nil {
		return nil, err
	}
	return wrap(local, logger), nil
}

// OpenInMemory creates storage backed by an in-memory database (for testing)
func OpenInMemory() (*Storage, error) {
	local, err := sqlite.NewStorageInMemory()
	if err != nil {
		return nil, err
	}
	return wrap(local, nil), nil
}

func wrap(local *sqlite.Storage, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{local: local, logger: logger}
}

// SetMirror attaches a sync mirror. Pass nil to detach.
func (s *Storage) SetMirror(m Mirror) {
	s.mirror = m
}

// Sessions returns the token store used by the HTTP client.
func (s *Storage) Sessions() *sqlite.SessionStore {
	return s.local.Sessions()
}

// Preference reads a preference from the local store.
func (s *Storage) Preference(key string) (string, bool, error) {
	return s.local.Preferences().Get(key)
}

// SetPreference writes locally, then mirrors. A mirror failure is logged, not returned.
func (s *Storage) SetPreference(key, value string) error {
	if err := s.local.Preferences().Set(key, value); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	if s.mirror != nil {
		if err := s.mirror.Put(key, value); err != nil {
			s.logger.Warn("preference mirror failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (s *Storage) DeletePreference(key string) error {
	if err := s.local.Preferences().Delete(key); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.Remove(key); err != nil {
			s.logger.Warn("preference mirror delete failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// Preferences exposes the typed preference helpers.
func (s *Storage) Preferences() *sqlite.PreferenceStore {
	return s.local.Preferences()
}

// PullMirror copies mirrored preferences into the local store and reports how many were applied.
// Remote values win; local keys absent remotely are left alone.
func (s *Storage) PullMirror() (int, error) {
	if s.mirror == nil {
		return 0, nil
	}
	remote, err := s.mirror.Preferences()
	if err != nil {
		return 0, fmt.Errorf("failed to read mirror: %w", err)
	}
	n := 0
	for k, v := range remote {
		cur, ok, err := s.local.Preferences().Get(k)
		if err != nil {
			return n, err
		}
		if ok && cur == v {
			continue
		}
		if err := s.local.Preferences().Set(k, v); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Local returns the underlying sqlite storage, used for export.
func (s *Storage) Local() *sqlite.Storage {
	return s.local
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.local.DB().Path()
}

// Close closes the storage
func (s *Storage) Close() error {
	return s.local.Close()
}
