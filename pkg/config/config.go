package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// API
	API struct {
		BaseURL        string `toml:"base_url"` // Backend origin; requests go to <base_url>/api
		Token          string `toml:"token"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	} `toml:"api"`

	// UI
	UI struct {
		PageSize            int    `toml:"page_size"`
		PollIntervalSeconds int    `toml:"poll_interval_seconds"`
		HistoryLimit        int    `toml:"history_limit"` // Chat history messages loaded on open
		Theme               string `toml:"theme"`         // auto, dark or light (markdown rendering)
		LastPath            string `toml:"last_path"`
	} `toml:"ui"`

	// Export
	Export struct {
		Dir string `toml:"dir"` // Where downloaded exports are written
	} `toml:"export"`

	// Log
	Log struct {
		Dir   string `toml:"dir"`
		Level string `toml:"level"`
	} `toml:"log"`

	// Mock backend for local development
	Mock struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	} `toml:"mock"`
}

// DefaultConfig returns a config with default values
// The API default matches the mock backend in cmd/mockapi
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "http://localhost:8001"
	cfg.API.Token = ""
	cfg.API.TimeoutSeconds = 30
	cfg.UI.PageSize = 20
	cfg.UI.PollIntervalSeconds = 5
	cfg.UI.HistoryLimit = 50
	cfg.UI.Theme = "auto"
	cfg.Export.Dir = "."
	cfg.Log.Dir = "tmp"
	cfg.Log.Level = "info"
	cfg.Mock.Host = "127.0.0.1"
	cfg.Mock.Port = 8001
	return cfg
}

// ConfigPath returns the path to the config file.
// SCRAPI_CONFIG overrides the default ~/.config/scrapi/config.toml
func ConfigPath() (string, error) {
	if p := os.Getenv("SCRAPI_CONFIG"); p != "" {
		return expandHome(p)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "scrapi")
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads configuration from the default config path
// Creates the file with defaults if it doesn't exist
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from configPath, creating it with defaults
// when missing. Environment overrides are applied last.
func LoadFrom(configPath string) (*Config, error) {
	configPath, err := expandHome(configPath)
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveTo(cfg, configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnv(cfg)
		return cfg, nil
	}

	// Read existing config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeDefaults(&cfg)
	applyEnv(&cfg)

	return &cfg, nil
}

// mergeDefaults fills any missing values from DefaultConfig
func mergeDefaults(cfg *Config) {
	defaultCfg := DefaultConfig()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultCfg.API.BaseURL
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = defaultCfg.API.TimeoutSeconds
	}
	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = defaultCfg.UI.PageSize
	}
	if cfg.UI.PollIntervalSeconds <= 0 {
		cfg.UI.PollIntervalSeconds = defaultCfg.UI.PollIntervalSeconds
	}
	if cfg.UI.HistoryLimit <= 0 {
		cfg.UI.HistoryLimit = defaultCfg.UI.HistoryLimit
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaultCfg.UI.Theme
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = defaultCfg.Export.Dir
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = defaultCfg.Log.Dir
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
	if cfg.Mock.Host == "" {
		cfg.Mock.Host = defaultCfg.Mock.Host
	}
	if cfg.Mock.Port == 0 {
		cfg.Mock.Port = defaultCfg.Mock.Port
	}
}

// applyEnv overrides values with environment variables if set (useful for Docker)
func applyEnv(cfg *Config) {
	if baseURL := os.Getenv("SCRAPI_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if token := os.Getenv("SCRAPI_TOKEN"); token != "" {
		cfg.API.Token = token
	}
}

// Save writes the configuration to the default config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes the configuration to configPath
func SaveTo(cfg *Config, configPath string) error {
	configPath, err := expandHome(configPath)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to TOML
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds the bearer token
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandHome expands a leading ~ in path
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return strings.Replace(path, "~", homeDir, 1), nil
}
