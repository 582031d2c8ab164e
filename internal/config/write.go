package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteFile renders the configuration as YAML and writes it atomically, so
// a crash mid-write never leaves a truncated config behind.
func WriteFile(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data, 0o644)
}
