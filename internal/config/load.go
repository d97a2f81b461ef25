package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file. CLI flags are
// applied on top by the caller. An empty path searches the standard
// locations and falls back to defaults when nothing is found.
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	if path == "" {
		path = FindConfigFile()
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	return cfg, nil
}

// FindConfigFile looks for config in standard locations.
func FindConfigFile() string {
	candidates := []string{
		"./skydome.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ls-skydome")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "ls-skydome")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ls-skydome")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "ls-skydome")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
