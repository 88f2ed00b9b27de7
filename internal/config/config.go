package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines dashboard client configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

type APIConfig struct {
	// BaseURL is the root of the crash-alerting backend API.
	BaseURL string `yaml:"base_url"`
	// Timeout applies to every outbound request. Zero means the
	// transport default (no timeout).
	Timeout time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: "http://localhost:4000",
		},
		Store: StoreConfig{
			Path: "crashdash.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("CRASHDASH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if url := os.Getenv("CRASHDASH_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if timeoutStr := os.Getenv("CRASHDASH_HTTP_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRASHDASH_HTTP_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = timeout
	}
	if storePath := os.Getenv("CRASHDASH_STORE_PATH"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if level := os.Getenv("CRASHDASH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
