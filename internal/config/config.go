// Package config provides configuration management for the vmforge CLI.
// It handles reading and writing credentials and settings to the config file.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const (
	// DefaultAPIURL is the default VMForge panel endpoint
	DefaultAPIURL = "http://localhost:8000"

	// ConfigDirName is the name of the config directory
	ConfigDirName = ".vmforge"

	// ConfigFileName is the name of the config file
	ConfigFileName = "config.json"
)

// TokenPair is the access/refresh token pair issued by the panel.
// Both tokens are opaque bearer strings; the pair is always stored and
// cleared as a unit.
type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Config represents the CLI configuration stored on disk
type Config struct {
	// AccessToken is the bearer token attached to API requests
	AccessToken string `json:"access_token,omitempty"`

	// RefreshToken is exchanged for a new token pair when the access
	// token expires
	RefreshToken string `json:"refresh_token,omitempty"`

	// APIURL is the base URL of the VMForge panel
	APIURL string `json:"api_url,omitempty"`
}

// Manager handles configuration file operations.
// Token reads and writes are serialized so a reader never observes a
// mismatched access/refresh pair mid-write.
type Manager struct {
	mu         sync.Mutex
	configPath string
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(homeDir, ConfigDirName, ConfigFileName)
	return &Manager{configPath: configPath}, nil
}

// NewManagerWithPath creates a new configuration manager with a custom path
// This is useful for testing
func NewManagerWithPath(configPath string) *Manager {
	return &Manager{configPath: configPath}
}

// Load reads the configuration from disk
// Returns an empty config if the file doesn't exist
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() (*Config, error) {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Return default config if file doesn't exist
			return &Config{
				APIURL: DefaultAPIURL,
			}, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Set default API URL if not specified
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}

	return &config, nil
}

// Save writes the configuration to disk
func (m *Manager) Save(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(config)
}

func (m *Manager) save(config *Config) error {
	// Ensure the config directory exists
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file and rename so concurrent readers see either
	// the old pair or the new pair, never a partial write.
	tmp, err := os.CreateTemp(configDir, ConfigFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, m.configPath)
}

// Tokens returns the stored token pair.
// The second return value is false when no pair is stored; absence is
// not an error.
func (m *Manager) Tokens() (TokenPair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.load()
	if err != nil {
		return TokenPair{}, false
	}

	if config.AccessToken == "" {
		return TokenPair{}, false
	}

	return TokenPair{
		Access:  config.AccessToken,
		Refresh: config.RefreshToken,
	}, true
}

// SaveTokens stores a token pair, overwriting any previous pair as a unit
func (m *Manager) SaveTokens(pair TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.load()
	if err != nil {
		return err
	}

	config.AccessToken = pair.Access
	config.RefreshToken = pair.Refresh

	return m.save(config)
}

// ClearTokens removes the stored token pair, keeping other settings
func (m *Manager) ClearTokens() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.load()
	if err != nil {
		return err
	}

	config.AccessToken = ""
	config.RefreshToken = ""

	return m.save(config)
}

// Delete removes the config file entirely
func (m *Manager) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(m.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// HasTokens reports whether a token pair is currently stored
func (m *Manager) HasTokens() bool {
	_, ok := m.Tokens()
	return ok
}

// GetAPIURL returns the configured API URL
func (m *Manager) GetAPIURL() (string, error) {
	config, err := m.Load()
	if err != nil {
		return "", err
	}

	if config.APIURL == "" {
		return DefaultAPIURL, nil
	}

	return config.APIURL, nil
}

// SetAPIURL persists a panel URL override
func (m *Manager) SetAPIURL(apiURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.load()
	if err != nil {
		return err
	}

	config.APIURL = apiURL

	return m.save(config)
}

// ConfigPath returns the path to the config file
func (m *Manager) ConfigPath() string {
	return m.configPath
}
