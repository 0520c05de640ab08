// Package config handles configuration loading and validation for scribe.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/scribe/internal/core/report"
	"github.com/colonyops/scribe/internal/core/storage"
)

// Config holds the application configuration.
type Config struct {
	Defaults    Defaults          `yaml:"defaults"`
	Attachments AttachmentsConfig `yaml:"attachments"`
	Store       StoreConfig       `yaml:"store"`
	DataDir     string            `yaml:"-"` // set by caller, not from config file
}

// Defaults seeds a freshly created report record.
type Defaults struct {
	Priority report.Priority `yaml:"priority"`
	Category string          `yaml:"category"`
}

// AttachmentsConfig controls attachment capture.
type AttachmentsConfig struct {
	// Ignore lists glob patterns for files that are never attached.
	Ignore []string `yaml:"ignore"`
}

// StoreConfig tunes the durable store.
type StoreConfig struct {
	// CapacityBytes is the assumed capacity ceiling used for usage
	// accounting and quota checks. It is an estimate, not a platform
	// limit.
	CapacityBytes int64 `yaml:"capacity_bytes"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Defaults: Defaults{
			Priority: report.PriorityMedium,
			Category: "Bug",
		},
		Attachments: AttachmentsConfig{
			Ignore: []string{".DS_Store", "*.tmp"},
		},
		Store: StoreConfig{
			CapacityBytes: storage.DefaultCapacityBytes,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Defaults.Priority == "" {
		c.Defaults.Priority = defaults.Defaults.Priority
	}
	if c.Defaults.Category == "" {
		c.Defaults.Category = defaults.Defaults.Category
	}
	if c.Store.CapacityBytes == 0 {
		c.Store.CapacityBytes = defaults.Store.CapacityBytes
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if !c.Defaults.Priority.Valid() {
		return fmt.Errorf("defaults.priority must be one of low, medium, high, got %q", c.Defaults.Priority)
	}

	if c.Store.CapacityBytes < 1 {
		return fmt.Errorf("store.capacity_bytes must be positive")
	}

	for _, pattern := range c.Attachments.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("attachments.ignore pattern %q is invalid", pattern)
		}
	}

	return nil
}

// StoreDir returns the directory where record family blobs are stored.
func (c *Config) StoreDir() string {
	return filepath.Join(c.DataDir, "store")
}
