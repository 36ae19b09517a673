package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default catalog endpoints, used until the user points the app at
// their own price lists.
const (
	DefaultPartsURL  = "https://example.com/api/parts"
	DefaultLabourURL = "https://example.com/api/labour"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Remote catalog endpoints
	Catalog CatalogConfig `yaml:"catalog"`

	// Logging settings
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type CatalogConfig struct {
	PartsURL  string `yaml:"parts_url"`
	LabourURL string `yaml:"labour_url"`
}

type LogConfig struct {
	Path string `yaml:"path"` // Log file (the TUI owns stdout)
}

// DefaultConfigPath returns ~/.config/jobtrack/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "jobtrack", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "jobtrack", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir, ".config", "jobtrack", "jobtrack.db"),
		},
		Catalog: CatalogConfig{
			PartsURL:  DefaultPartsURL,
			LabourURL: DefaultLabourURL,
		},
		Log: LogConfig{
			Path: filepath.Join(homeDir, ".config", "jobtrack", "jobtrack.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse YAML over defaults so missing keys keep their default values
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (database, log)
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	logDir := filepath.Dir(c.Log.Path)
	return os.MkdirAll(logDir, 0755)
}

// ResetCatalogURLs restores the two catalog endpoints to their defaults
func (c *Config) ResetCatalogURLs() {
	c.Catalog.PartsURL = DefaultPartsURL
	c.Catalog.LabourURL = DefaultLabourURL
}
