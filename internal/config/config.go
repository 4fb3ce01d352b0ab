package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/justyntemme/dropshell/internal/dnd"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Navigation NavigationConfig `json:"navigation"`
	Drag       DragConfig       `json:"drag"`
	Watch      WatchConfig      `json:"watch"`
	Journal    JournalConfig    `json:"journal"`
	Hotkeys    HotkeysConfig    `json:"hotkeys"`
}

// NavigationConfig holds window navigation settings
type NavigationConfig struct {
	StartPath  string `json:"startPath"`  // empty opens the working directory
	MaxHistory int    `json:"maxHistory"` // back-stack depth per window
}

// DragConfig holds drag-and-drop settings
type DragConfig struct {
	InternalPolicy string `json:"internalPolicy"` // "volume" | "move"
}

// WatchConfig holds directory watcher settings
type WatchConfig struct {
	Enabled    bool `json:"enabled"`
	DebounceMs int  `json:"debounceMs"`
}

// JournalConfig holds transfer journal settings
type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"` // empty uses journal.db next to config.json
}

// HotkeysConfig holds keyboard shortcut strings such as "Alt+Left"
type HotkeysConfig struct {
	Back        string `json:"back"`
	Forward     string `json:"forward"`
	Up          string `json:"up"`
	Open        string `json:"open"`
	NewWindow   string `json:"newWindow"`
	CloseWindow string `json:"closeWindow"`
	CloseAll    string `json:"closeAll"`
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a manager for the default config path
func NewManager() *Manager {
	return NewManagerAt("")
}

// NewManagerAt creates a manager for path; empty means ConfigPath()
func NewManagerAt(path string) *Manager {
	if path == "" {
		path = ConfigPath()
	}
	return &Manager{
		config: DefaultConfig(),
		path:   path,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Navigation: NavigationConfig{
			MaxHistory: 100,
		},
		Drag: DragConfig{
			InternalPolicy: "volume",
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 200,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Hotkeys: DefaultHotkeys(),
	}
}

// ConfigPath returns the config file path: ~/.config/dropshell/config.json
// This is consistent across all platforms (Windows, macOS, Linux)
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dropshell", "config.json")
}

// Path returns the file the manager reads and writes
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Printf("Config: failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		log.Printf("Config: creating default config at %s", m.path)
		m.config = DefaultConfig()
		if saveErr := m.saveUnlocked(); saveErr != nil {
			log.Printf("Config: failed to save default config: %v", saveErr)
			return saveErr
		}
		return nil
	}
	if err != nil {
		log.Printf("Config: failed to read %s: %v", m.path, err)
		return err
	}

	// Start from defaults so sections missing from the file keep them.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("Config: JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil // Don't return error - we're using defaults
	}
	if err := cfg.validate(); err != nil {
		log.Printf("Config: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}

	log.Printf("Config: loaded from %s", m.path)
	m.config = cfg
	return nil
}

func (c *Config) validate() error {
	switch c.Drag.InternalPolicy {
	case "", "volume", "move":
	default:
		return fmt.Errorf("unknown drag.internalPolicy %q", c.Drag.InternalPolicy)
	}
	if c.Navigation.MaxHistory < 0 {
		return fmt.Errorf("navigation.maxHistory must not be negative")
	}
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// DropPolicy returns the resolver policy selected by drag.internalPolicy
func (m *Manager) DropPolicy() dnd.Policy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config.Drag.InternalPolicy == "move" {
		return dnd.InternalMove{Fallback: dnd.VolumeAffinity{}}
	}
	return dnd.VolumeAffinity{}
}

// Debounce returns the watcher debounce interval
func (m *Manager) Debounce() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Duration(m.config.Watch.DebounceMs) * time.Millisecond
}

// JournalPath returns where the transfer journal lives
func (m *Manager) JournalPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config.Journal.Path != "" {
		return m.config.Journal.Path
	}
	return filepath.Join(filepath.Dir(m.path), "journal.db")
}

// SetInternalPolicy updates drag.internalPolicy and saves
func (m *Manager) SetInternalPolicy(policy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.config.Drag.InternalPolicy
	m.config.Drag.InternalPolicy = policy
	if err := m.config.validate(); err != nil {
		m.config.Drag.InternalPolicy = prev
		return err
	}
	return m.saveUnlocked()
}

// GenerateConfig backs up the config at path and writes a fresh default.
// Returns the backup path if a backup was created, or empty string if no existing config
func GenerateConfig(path string) (backupPath string, err error) {
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(path), "config.backup."+timestamp+".json")

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
