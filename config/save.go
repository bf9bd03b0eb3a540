package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteLocal writes the config as .tddflow.yaml in the project root.
func WriteLocal(projectRoot string, cfg *Config) error {
	if projectRoot == "" {
		return fmt.Errorf("project root is required")
	}
	return writeConfig(filepath.Join(projectRoot, LocalConfigName), cfg)
}

// WriteGlobal writes the config to ~/.config/tddflow/config.yaml,
// creating the directory if needed.
func WriteGlobal(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	path := filepath.Join(home, ".config", globalConfigDir, globalConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

func writeConfig(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
