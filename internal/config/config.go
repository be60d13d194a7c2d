package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is used when no base URL has been configured
const DefaultBaseURL = "http://localhost:4502"

// Configuration keys
const (
	KeyUsername = "username"
	KeyPassword = "password"
	KeyBaseURL  = "baseUrl"
)

// Keys lists the valid configuration keys in display order
var Keys = []string{KeyUsername, KeyPassword, KeyBaseURL}

// Config holds the AEM connection settings
type Config struct {
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	BaseURL  string `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
}

// EffectiveBaseURL returns the configured base URL or DefaultBaseURL
func (c Config) EffectiveBaseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

// HasCredentials reports whether both username and password are set
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// Backend persists a Config between invocations
type Backend interface {
	Load() (Config, error)
	Save(Config) error
}

// NormalizeKey maps accepted key spellings onto the canonical key
func NormalizeKey(key string) (string, error) {
	switch strings.ToLower(key) {
	case "username", "user":
		return KeyUsername, nil
	case "password":
		return KeyPassword, nil
	case "baseurl", "base-url", "base_url", "url":
		return KeyBaseURL, nil
	}
	return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
}

// Store is the configuration record used by every command
type Store struct {
	mu      sync.Mutex
	backend Backend
	cfg     Config
}

// NewStore loads the current configuration from backend
func NewStore(backend Backend) (*Store, error) {
	cfg, err := backend.Load()
	if err != nil {
		return nil, err
	}
	return &Store{backend: backend, cfg: cfg}, nil
}

// Get returns the value for key and whether it is set. Unknown keys are
// reported as unset.
func (s *Store) Get(key string) (string, bool) {
	if k, err := NormalizeKey(key); err == nil {
		key = k
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var v string
	switch key {
	case KeyUsername:
		v = s.cfg.Username
	case KeyPassword:
		v = s.cfg.Password
	case KeyBaseURL:
		v = s.cfg.BaseURL
	}
	return v, v != ""
}

// Set updates key and persists the record
func (s *Store) Set(key, value string) error {
	key, err := NormalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	switch key {
	case KeyUsername:
		next.Username = value
	case KeyPassword:
		next.Password = value
	case KeyBaseURL:
		next.BaseURL = strings.TrimSuffix(value, "/")
	}

	if err := s.backend.Save(next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// IsConfigured reports whether username and password are both present
func (s *Store) IsConfigured() bool {
	return s.All().HasCredentials()
}

// All returns a copy of the full configuration record
func (s *Store) All() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// DefaultPath returns the path to the config file
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "aemctl", "config.yaml")
}

// FileBackend stores the configuration as YAML on disk
type FileBackend struct {
	Path string
}

// NewFileBackend returns a backend for path, or DefaultPath when path is empty
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultPath()
	}
	return &FileBackend{Path: path}
}

// Load reads the config file; a missing file yields an empty Config
func (b *FileBackend) Load() (Config, error) {
	var cfg Config
	if b.Path == "" {
		return cfg, fmt.Errorf("cannot determine config file location")
	}

	data, err := os.ReadFile(b.Path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", b.Path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", b.Path, err)
	}
	return cfg, nil
}

// Save writes the config file, creating its directory if needed
func (b *FileBackend) Save(cfg Config) error {
	if b.Path == "" {
		return fmt.Errorf("cannot determine config file location")
	}

	if err := os.MkdirAll(filepath.Dir(b.Path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(b.Path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// MemoryBackend keeps the configuration in process memory
type MemoryBackend struct {
	mu  sync.Mutex
	cfg Config
}

// NewMemoryBackend returns a backend seeded with cfg
func NewMemoryBackend(cfg Config) *MemoryBackend {
	return &MemoryBackend{cfg: cfg}
}

func (b *MemoryBackend) Load() (Config, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg, nil
}

func (b *MemoryBackend) Save(cfg Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
	return nil
}
