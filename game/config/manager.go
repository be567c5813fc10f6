package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrProfileNotFound = errors.New("configuration profile not found")

// Manager loads and caches a configuration profile
type Manager struct {
	path   string
	config *Config
	mu     sync.RWMutex
}

// NewManager creates a manager for the profile at path.
// An empty path means defaults only.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the profile file
func (m *Manager) Path() string {
	return m.path
}

// Load merges the profile over the defaults and validates the result.
// A missing profile file is not an error.
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	if m.config != nil {
		cfg := *m.config
		m.mu.RUnlock()
		return &cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := Default()
	if m.path != "" {
		data, err := os.ReadFile(m.path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// Defaults only
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.config = cfg
	out := *cfg
	return &out, nil
}

// LoadRequired behaves like Load but fails when the profile file is missing
func (m *Manager) LoadRequired() (*Config, error) {
	if _, err := os.Stat(m.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, m.path)
	}
	return m.Load()
}

// Save validates cfg and writes it as the profile
func (m *Manager) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *cfg
	m.config = &saved
	return nil
}
