// ABOUTME: Charm KV client that mirrors local preferences to the user's charm account
// ABOUTME: Lets sidebar and tour state follow the user across machines via SSH key auth
package charm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

// PreferencePrefix namespaces preference keys inside the charm database.
const PreferencePrefix = "pref:"

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "tripnara",
		AutoSync: true,
	}
}

// store is the subset of *kv.KV used here.
type store interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Close() error
}

// Client wraps charm KV for preference mirroring
type Client struct {
	kv     store
	config *Config
	mu     sync.Mutex
}

// NewClient opens the charm database named in cfg
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	// charm reads its host from the environment
	if cfg.Host != "" {
		if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
			return nil, err
		}
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}
	c := newClient(db, cfg)

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return c, nil
}

func newClient(s store, cfg *Config) *Client {
	return &Client{kv: s, config: cfg}
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil
		return err
	}
	return nil
}

var errClosed = errors.New("charm client is closed")

func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Put mirrors one preference.
func (c *Client) Put(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return errClosed
	}
	if err := c.kv.Set([]byte(PreferencePrefix+key), []byte(value)); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Remove deletes a mirrored preference.
func (c *Client) Remove(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return errClosed
	}
	if err := c.kv.Delete([]byte(PreferencePrefix + key)); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Preferences returns every mirrored preference with the prefix stripped.
func (c *Client) Preferences() (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return nil, errClosed
	}

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	out := make(map[string]string)
	for _, key := range keys {
		k := string(key)
		if !strings.HasPrefix(k, PreferencePrefix) {
			continue
		}
		v, err := c.kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to get key %s: %w", k, err)
		}
		out[strings.TrimPrefix(k, PreferencePrefix)] = string(v)
	}
	return out, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return errClosed
	}
	return c.kv.Sync()
}
