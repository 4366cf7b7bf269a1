// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

// ---- BRIDGE ----

type BridgeConfig struct {
	// Port pins the serial device path. Empty means auto-discover.
	Port string `yaml:"port"`

	BaudRate       int `yaml:"baud_rate"`
	ReadTimeoutMs  int `yaml:"read_timeout_ms"`
	PollIntervalMs int `yaml:"poll_interval_ms"`

	Connect    ConnectConfig    `yaml:"connect"`
	Store      StoreConfig      `yaml:"store"`
	Thingspeak ThingspeakConfig `yaml:"thingspeak"`
	API        APIConfig        `yaml:"api"`
}

// ---- CONNECT / RETRY ----

type ConnectConfig struct {
	Attempts       int `yaml:"attempts"`
	RetryDelayMs   int `yaml:"retry_delay_ms"`
	ReconnectLimit int `yaml:"reconnect_limit"`
	BackoffMs      int `yaml:"backoff_ms"`
}

// ---- STORE ----

type StoreConfig struct {
	Path string `yaml:"path"`
}

// ---- TELEMETRY SINK ----

type ThingspeakConfig struct {
	// Enabled is a pointer so "absent" can default to true in Normalize.
	Enabled   *bool  `yaml:"enabled"`
	URL       string `yaml:"url"`
	WriteKey  string `yaml:"write_key"`
	ChannelID string `yaml:"channel_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- STATUS API ----

type APIConfig struct {
	// Addr is the listen address for the read-only status API.
	// Empty disables the API.
	Addr string `yaml:"addr"`
}

// Load reads and decodes the YAML config file.
// It performs no validation and no defaulting.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return &cfg, nil
}
