// ABOUTME: Centralized configuration for the tripnara client
// ABOUTME: Loads from environment variables and an optional YAML file with validation and defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/tripnara/tripnara-go/internal/tripview"
	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is injected at build time:
// -ldflags "-X github.com/tripnara/tripnara-go/internal/config.DefaultAPIBaseURL=https://api.example.com/api"
var DefaultAPIBaseURL string

const FallbackAPIBaseURL = "http://localhost:3000/api"

// Where the API base URL came from.
const (
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceBuild   = "build"
	SourceDefault = "default"
)

// Config holds all configuration for the client
type Config struct {
	// API settings
	APIBaseURL       string
	APIBaseURLSource string
	RequestTimeout   time.Duration
	RateLimit        float64
	RateBurst        int

	// Feature flags
	UseDecisionEngineV1  bool
	UseMockDecisionDraft bool

	// Polling
	VisiblePollInterval time.Duration
	HiddenPollInterval  time.Duration
	TaskPollInterval    time.Duration
	TaskPollAttempts    int

	// Trip view thresholds
	FatigueThreshold float64
	MinBufferMinutes float64

	// Storage and sync
	DataDir     string
	CharmHost   string
	CharmDBName string
	CharmSync   bool

	LogLevel string
}

// File is the YAML config file. Unset fields leave the environment value in place.
type File struct {
	APIBaseURL          string   `yaml:"apiBaseUrl"`
	UseDecisionEngineV1 *bool    `yaml:"useDecisionEngineV1"`
	LogLevel            string   `yaml:"logLevel"`
	DataDir             string   `yaml:"dataDir"`
	FatigueThreshold    *float64 `yaml:"fatigueThreshold"`
	MinBufferMinutes    *float64 `yaml:"minBufferMinutes"`
	CharmSync           *bool    `yaml:"charmSync"`
}

// DefaultPath is $XDG_CONFIG_HOME/tripnara/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "tripnara", "config.yaml")
}

// Load reads configuration from environment variables, then applies the config file at path.
// An empty path uses DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{
		RequestTimeout:       getEnvDuration("TRIPNARA_TIMEOUT", 30*time.Second),
		RateLimit:            getEnvFloat("TRIPNARA_RATE_LIMIT", 0),
		RateBurst:            getEnvInt("TRIPNARA_RATE_BURST", 5),
		UseDecisionEngineV1:  getEnvBool("TRIPNARA_USE_DECISION_ENGINE_V1", false),
		UseMockDecisionDraft: getEnvBool("TRIPNARA_USE_MOCK_DECISION_DRAFT", false),
		VisiblePollInterval:  getEnvDuration("TRIPNARA_POLL_VISIBLE", 30*time.Second),
		HiddenPollInterval:   getEnvDuration("TRIPNARA_POLL_HIDDEN", 2*time.Minute),
		TaskPollInterval:     getEnvDuration("TRIPNARA_TASK_POLL_INTERVAL", 2*time.Second),
		TaskPollAttempts:     getEnvInt("TRIPNARA_TASK_POLL_ATTEMPTS", 60),
		FatigueThreshold:     getEnvFloat("TRIPNARA_FATIGUE_THRESHOLD", tripview.DefaultEffortThreshold),
		MinBufferMinutes:     getEnvFloat("TRIPNARA_MIN_BUFFER_MINUTES", tripview.DefaultMinBufferMinutes),
		DataDir:              getEnv("TRIPNARA_DATA_DIR", filepath.Join(xdg.DataHome, "tripnara")),
		CharmHost:            getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:          getEnv("CHARM_DB", "tripnara"),
		CharmSync:            getEnvBool("TRIPNARA_CHARM_SYNC", false),
		LogLevel:             getEnv("TRIPNARA_LOG_LEVEL", "info"),
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	fileURL := ""
	f, err := readFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		cfg.apply(f)
		fileURL = f.APIBaseURL
	}
	cfg.APIBaseURL, cfg.APIBaseURLSource = resolveBaseURL(fileURL, os.Getenv("TRIPNARA_API_BASE_URL"))

	return cfg, cfg.Validate()
}

func readFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func (c *Config) apply(f *File) {
	if f.UseDecisionEngineV1 != nil {
		c.UseDecisionEngineV1 = *f.UseDecisionEngineV1
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.FatigueThreshold != nil {
		c.FatigueThreshold = *f.FatigueThreshold
	}
	if f.MinBufferMinutes != nil {
		c.MinBufferMinutes = *f.MinBufferMinutes
	}
	if f.CharmSync != nil {
		c.CharmSync = *f.CharmSync
	}
}

// resolveBaseURL applies the priority file > env > build-time default > fallback.
func resolveBaseURL(file, env string) (string, string) {
	switch {
	case file != "":
		return file, SourceFile
	case env != "":
		return env, SourceEnv
	case DefaultAPIBaseURL != "":
		return DefaultAPIBaseURL, SourceBuild
	default:
		return FallbackAPIBaseURL, SourceDefault
	}
}

// Thresholds returns the trip view thresholds.
func (c *Config) Thresholds() tripview.Thresholds {
	return tripview.Thresholds{EffortThreshold: c.FatigueThreshold, MinBufferMinutes: c.MinBufferMinutes}
}

// DatabasePath is the sqlite file holding the session and preferences.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "tripnara.db")
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("TRIPNARA_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("TRIPNARA_RATE_LIMIT must not be negative, got %f", c.RateLimit)
	}
	if c.TaskPollAttempts < 1 || c.TaskPollAttempts > 1000 {
		return fmt.Errorf("TRIPNARA_TASK_POLL_ATTEMPTS must be 1-1000, got %d", c.TaskPollAttempts)
	}
	if c.VisiblePollInterval <= 0 || c.HiddenPollInterval < c.VisiblePollInterval {
		return fmt.Errorf("poll intervals must be positive with hidden >= visible, got %v/%v",
			c.VisiblePollInterval, c.HiddenPollInterval)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("TRIPNARA_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
