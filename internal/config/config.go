package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/accord/internal/core/mou"
)

// Config represents the flat accord configuration
type Config struct {
	Version              string   `json:"version"`
	ActorID              string   `json:"actor_id,omitempty"`               // default actor for audit entries
	RenewalAlertDays     int      `json:"renewal_alert_days,omitempty"`     // 0 means default
	DeliverableAlertDays int      `json:"deliverable_alert_days,omitempty"` // 0 means default
	ExpiryAlertDays      int      `json:"expiry_alert_days,omitempty"`      // 0 means default
	AlertRecipients      []string `json:"alert_recipients,omitempty"`
}

// LoadConfig reads .accord/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".accord", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	accordDir := filepath.Join(dir, ".accord")
	if err := os.MkdirAll(accordDir, 0755); err != nil {
		return fmt.Errorf("failed to create .accord dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(accordDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// AlertSettings maps the configured day offsets onto the engine settings,
// falling back to the 90/30/60 defaults for unset values.
func (c *Config) AlertSettings() mou.AlertSettings {
	settings := mou.DefaultAlertSettings()
	if c == nil {
		return settings
	}
	if c.RenewalAlertDays > 0 {
		settings.RenewalAlertDays = c.RenewalAlertDays
	}
	if c.DeliverableAlertDays > 0 {
		settings.DeliverableAlertDays = c.DeliverableAlertDays
	}
	if c.ExpiryAlertDays > 0 {
		settings.ExpiryAlertDays = c.ExpiryAlertDays
	}
	settings.Recipients = c.AlertRecipients
	return settings
}
