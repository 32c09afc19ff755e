// ABOUTME: Export of locally persisted client state for backup or inspection
// ABOUTME: Supports YAML and JSON; the bearer token is never written out
package sqlite

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version     string             `yaml:"version" json:"version"`
	ExportedAt  string             `yaml:"exported_at" json:"exported_at"`
	Tool        string             `yaml:"tool" json:"tool"`
	Schema      int                `yaml:"schema" json:"schema"`
	User        *ExportUser        `yaml:"user,omitempty" json:"user,omitempty"`
	SignedIn    bool               `yaml:"signed_in" json:"signed_in"`
	Preferences []ExportPreference `yaml:"preferences" json:"preferences"`
}

// ExportUser is the signed-in user without credentials
type ExportUser struct {
	ID          string `yaml:"id" json:"id"`
	Email       string `yaml:"email,omitempty" json:"email,omitempty"`
	DisplayName string `yaml:"display_name,omitempty" json:"display_name,omitempty"`
}

type ExportPreference struct {
	Key       string `yaml:"key" json:"key"`
	Value     string `yaml:"value" json:"value"`
	UpdatedAt string `yaml:"updated_at" json:"updated_at"`
}

// Export collects everything stored except the access token
func (s *Storage) Export() (*ExportData, error) {
	version, err := s.db.Version()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "tripnara",
		Schema:     version,
	}

	user, err := s.sessions.User()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		eu := &ExportUser{ID: user.ID}
		if user.Email != nil {
			eu.Email = *user.Email
		}
		if user.DisplayName != nil {
			eu.DisplayName = *user.DisplayName
		}
		data.User = eu
	}
	data.SignedIn = s.sessions.Token() != ""

	prefs, err := s.preferences.List("")
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	data.Preferences = make([]ExportPreference, 0, len(prefs))
	for _, p := range prefs {
		data.Preferences = append(data.Preferences, ExportPreference{
			Key:       p.Key,
			Value:     p.Value,
			UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		})
	}
	return data, nil
}

// WriteYAML encodes the export to w
func (s *Storage) WriteYAML(w io.Writer) error {
	data, err := s.Export()
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func (s *Storage) WriteJSON(w io.Writer) error {
	data, err := s.Export()
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportToFile writes the export as YAML or JSON depending on format
func (s *Storage) ExportToFile(outputPath, format string) error {
	var write func(io.Writer) error
	switch format {
	case "yaml", "yml", "":
		write = s.WriteYAML
	case "json":
		write = s.WriteJSON
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
