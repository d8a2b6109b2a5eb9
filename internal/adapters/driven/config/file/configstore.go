package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// ConfigStore reads and writes config.toml within the firmproto config
// directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	cfg      Config
}

// NewConfigStore creates a store for configDir/config.toml.
// If configDir is empty, defaults to ~/.firmproto.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".firmproto")
	}
	return OpenConfigFile(filepath.Join(configDir, "config.toml"))
}

// OpenConfigFile creates a store for an explicit file path. A missing file
// yields the defaults.
func OpenConfigFile(path string) (*ConfigStore, error) {
	s := &ConfigStore{filePath: path, cfg: Default()}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns a copy of the current configuration.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update applies fn to the configuration, validates and persists it.
func (s *ConfigStore) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.cfg = next
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads the TOML file. Keys missing from the file keep their default
// values.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.cfg = Default()
			return nil
		}
		return err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// Encode returns the configuration as TOML.
func (s *ConfigStore) Encode() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toml.Marshal(s.cfg)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
