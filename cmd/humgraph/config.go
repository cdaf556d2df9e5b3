package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Output holds display preferences.
type Output struct {
	TableStyle string `toml:"table_style"` // rounded, light, ascii
	Color      string `toml:"color"`       // auto, always, never
}

// Config is the CLI configuration, loaded from an optional TOML file.
type Config struct {
	Output Output `toml:"output"`
}

func defaultConfig() *Config {
	return &Config{
		Output: Output{
			TableStyle: "rounded",
			Color:      "auto",
		},
	}
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := defaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
