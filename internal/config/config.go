// Package config handles the configuration management for kdfbench.
// It provides functionality to load, save, and validate the defaults applied
// to derivation requests issued from the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the kdfbench configuration
type Config struct {
	Algorithm    string        `yaml:"algorithm" validate:"required"`
	Bits         int           `yaml:"bits" validate:"gte=0,lte=65536,bytealigned"`
	Iterations   int           `yaml:"iterations" validate:"gte=0"`
	SaltSize     int           `yaml:"salt_size" validate:"gte=1,lte=1024"`
	Backend      string        `yaml:"backend" validate:"required,oneof=software platform"`
	OutputFormat string        `yaml:"output_format" validate:"required,oneof=text json"`
	ClipboardTTL time.Duration `yaml:"clipboard_ttl" validate:"gte=0"`
	LogLevel     string        `yaml:"log_level" validate:"required,oneof=debug info warn error"`
	Tune         TuneConfig    `yaml:"tune"`
}

// TuneConfig holds the defaults of the tune command
type TuneConfig struct {
	Target        time.Duration `yaml:"target" validate:"gt=0"`
	MaxIterations int           `yaml:"max_iterations" validate:"gt=0"`
}

// DefaultConfig returns the default configuration. Bits is left at zero: the
// key length must come from the config file or the command line.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:    "SHA-256",
		Bits:         0,
		Iterations:   0, // random benchmark count
		SaltSize:     16,
		Backend:      "software",
		OutputFormat: "text",
		ClipboardTTL: 30 * time.Second,
		LogLevel:     "warn",
		Tune: TuneConfig{
			Target:        250 * time.Millisecond,
			MaxIterations: 10_000_000,
		},
	}
}

// DefaultPath returns $HOME/.config/kdfbench/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kdfbench", "config.yaml"), nil
}

// LoadConfig loads configuration from file or returns default. A missing
// file is created with the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(cfg, configPath); err != nil {
			return cfg, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cleanPath := filepath.Clean(configPath)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, configPath string) error {
	cleanPath := filepath.Clean(configPath)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
