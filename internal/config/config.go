// Package config handles reading and writing .mull/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .mull/config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Service ServiceConfig `yaml:"service"`
	Chat    ChatConfig    `yaml:"chat"`
}

// ServiceConfig points the client at the remote advice service.
type ServiceConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// ChatConfig controls session timing behaviour.
type ChatConfig struct {
	TypingDelayMS   int `yaml:"typing_delay_ms"`   // pause before the result fetch after the survey completes
	ToastDurationMS int `yaml:"toast_duration_ms"` // how long a toast stays visible
	LongPressMS     int `yaml:"long_press_ms"`     // press-and-hold threshold in the room browser
}

// configFileName is the path relative to the working directory.
const configDir = ".mull"
const configFile = "config.yaml"

// ReadConfig reads .mull/config.yaml from the given directory.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .mull/config.yaml in the given directory.
// Creates the .mull/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Service: ServiceConfig{
			BaseURL:   "http://localhost:8787",
			TimeoutMS: 10000,
		},
		Chat: ChatConfig{
			TypingDelayMS:   900,
			ToastDurationMS: 2000,
			LongPressMS:     500,
		},
	}
}

// Timeout returns the request timeout as a duration, substituting the
// default when the field is unset.
func (c *Config) Timeout() time.Duration {
	return msOrDefault(c.Service.TimeoutMS, DefaultConfig().Service.TimeoutMS)
}

// TypingDelay returns the pause before fetching the final result.
func (c *Config) TypingDelay() time.Duration {
	return msOrDefault(c.Chat.TypingDelayMS, DefaultConfig().Chat.TypingDelayMS)
}

// ToastDuration returns how long toasts stay visible.
func (c *Config) ToastDuration() time.Duration {
	return msOrDefault(c.Chat.ToastDurationMS, DefaultConfig().Chat.ToastDurationMS)
}

// LongPress returns the press-and-hold threshold.
func (c *Config) LongPress() time.Duration {
	return msOrDefault(c.Chat.LongPressMS, DefaultConfig().Chat.LongPressMS)
}

func msOrDefault(ms, fallback int) time.Duration {
	if ms <= 0 {
		ms = fallback
	}
	return time.Duration(ms) * time.Millisecond
}
