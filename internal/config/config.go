// Package config loads and rewrites the renewbot configuration file.
// The file doubles as durable state: the mutable checkpoint fields live
// next to the credentials and are rewritten in place after every
// state-affecting step.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/renewbot/internal/models"
)

// Credentials identify the mailbox and the portal account. Immutable
// for a run.
type Credentials struct {
	IMAPServer     string `json:"imap_server"`
	IMAPLogin      string `json:"imap_login"`
	IMAPPassword   string `json:"imap_password"`
	PortalLogin    string `json:"portal_login"`
	PortalPassword string `json:"portal_password"`
}

// Config is the flat renewbot configuration: credentials plus the
// persisted checkpoint fields.
type Config struct {
	Credentials
	models.PersistedState
}

// Dir resolves the renewbot directory: $RENEWBOT_HOME if set, otherwise
// ~/.renewbot.
func Dir() (string, error) {
	if dir := os.Getenv("RENEWBOT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".renewbot"), nil
}

// Load reads config.json from the specified directory and applies
// credential overrides from the environment. Returns an error if no
// config is found - caller should handle accordingly.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadOrDefault reads config.json, treating a missing file as an empty
// config. Environment overrides still apply, so a fresh install can run
// entirely on RENEWBOT_* variables.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Is(err, os.ErrNotExist) {
		cfg = &Config{}
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return cfg, err
}

// Save writes config.json back to the directory, creating it if needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks that all credentials needed for a run are present.
func (c *Config) Validate() error {
	missing := []string{}
	if c.IMAPServer == "" {
		missing = append(missing, "imap_server")
	}
	if c.IMAPLogin == "" {
		missing = append(missing, "imap_login")
	}
	if c.IMAPPassword == "" {
		missing = append(missing, "imap_password")
	}
	if c.PortalLogin == "" {
		missing = append(missing, "portal_login")
	}
	if c.PortalPassword == "" {
		missing = append(missing, "portal_password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete config, missing: %v", missing)
	}
	return nil
}

// Secrets may come from the environment (or a .env file loaded at
// startup) instead of sitting in the state file.
func applyEnvOverrides(cfg *Config) {
	cfg.IMAPServer = getEnv("RENEWBOT_IMAP_SERVER", cfg.IMAPServer)
	cfg.IMAPLogin = getEnv("RENEWBOT_IMAP_LOGIN", cfg.IMAPLogin)
	cfg.IMAPPassword = getEnv("RENEWBOT_IMAP_PASSWORD", cfg.IMAPPassword)
	cfg.PortalLogin = getEnv("RENEWBOT_PORTAL_LOGIN", cfg.PortalLogin)
	cfg.PortalPassword = getEnv("RENEWBOT_PORTAL_PASSWORD", cfg.PortalPassword)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
