package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the hub renamer.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Hub     HubConfig     `yaml:"hub"`
	Logging LoggingConfig `yaml:"logging"`
}

// HubConfig contains connection settings for the home-automation hub.
type HubConfig struct {
	// Host is the hub address as host or host:port (e.g., "homeassistant.local:8123").
	Host string `yaml:"host"`

	// TLS selects wss:// instead of ws:// for the control connection.
	TLS bool `yaml:"tls"`

	// Path is the WebSocket API path on the hub. Default: "/api/websocket"
	Path string `yaml:"path"`

	// AccessToken is the long-lived access token used for the auth handshake.
	// Set via HUB_RENAMER_TOKEN rather than the config file where possible.
	AccessToken string `yaml:"access_token"`

	Timeouts HubTimeoutConfig `yaml:"timeouts"`
}

// HubTimeoutConfig contains per-operation timeouts in seconds.
type HubTimeoutConfig struct {
	// Connect bounds the WebSocket dial plus auth handshake.
	Connect int `yaml:"connect"`

	// Command bounds each command/response round trip. This is the only
	// temporal control during a run; there is no overall run deadline.
	Command int `yaml:"command"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HUB_RENAMER_KEY
// For example: HUB_RENAMER_HOST, HUB_RENAMER_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			Path: "/api/websocket",
			Timeouts: HubTimeoutConfig{
				Connect: 10,
				Command: 10,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HUB_RENAMER_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HUB_RENAMER_HOST"); v != "" {
		cfg.Hub.Host = v
	}
	if v := os.Getenv("HUB_RENAMER_TOKEN"); v != "" {
		cfg.Hub.AccessToken = v
	}
	if v := os.Getenv("HUB_RENAMER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// A missing host or token fails here, before any connection attempt.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Hub.Host == "" {
		errs = append(errs, "hub.host is required")
	}
	if c.Hub.AccessToken == "" {
		errs = append(errs, "hub.access_token is required (set HUB_RENAMER_TOKEN environment variable)")
	}
	if c.Hub.Path == "" {
		errs = append(errs, "hub.path is required")
	}
	if c.Hub.Timeouts.Connect < 1 {
		errs = append(errs, "hub.timeouts.connect must be at least 1 second")
	}
	if c.Hub.Timeouts.Command < 1 {
		errs = append(errs, "hub.timeouts.command must be at least 1 second")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// URL returns the full WebSocket URL for the hub control connection.
func (h HubConfig) URL() string {
	scheme := "ws"
	if h.TLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s%s", scheme, h.Host, h.Path)
}

// ConnectTimeout returns the dial/handshake timeout as a Duration.
func (h HubConfig) ConnectTimeout() time.Duration {
	return time.Duration(h.Timeouts.Connect) * time.Second
}

// CommandTimeout returns the per-command timeout as a Duration.
func (h HubConfig) CommandTimeout() time.Duration {
	return time.Duration(h.Timeouts.Command) * time.Second
}
