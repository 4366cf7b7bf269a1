// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	b := cfg.Bridge

	if b.BaudRate < 0 {
		return fmt.Errorf("bridge: baud_rate must be >= 0, got %d", b.BaudRate)
	}
	if b.ReadTimeoutMs < 0 {
		return fmt.Errorf("bridge: read_timeout_ms must be >= 0, got %d", b.ReadTimeoutMs)
	}
	if b.PollIntervalMs < 0 {
		return fmt.Errorf("bridge: poll_interval_ms must be >= 0, got %d", b.PollIntervalMs)
	}

	if b.Connect.Attempts < 0 {
		return fmt.Errorf("connect: attempts must be >= 0, got %d", b.Connect.Attempts)
	}
	if b.Connect.RetryDelayMs < 0 {
		return fmt.Errorf("connect: retry_delay_ms must be >= 0, got %d", b.Connect.RetryDelayMs)
	}
	if b.Connect.ReconnectLimit < 0 {
		return fmt.Errorf("connect: reconnect_limit must be >= 0, got %d", b.Connect.ReconnectLimit)
	}
	if b.Connect.BackoffMs < 0 {
		return fmt.Errorf("connect: backoff_ms must be >= 0, got %d", b.Connect.BackoffMs)
	}

	// Sink is opt-out; when enabled it needs a key to authenticate.
	if b.Thingspeak.Enabled == nil || *b.Thingspeak.Enabled {
		if b.Thingspeak.WriteKey == "" {
			return fmt.Errorf("thingspeak: write_key required while upload is enabled")
		}
	}
	if b.Thingspeak.URL != "" {
		if _, err := url.Parse(b.Thingspeak.URL); err != nil {
			return fmt.Errorf("thingspeak: invalid url %q: %w", b.Thingspeak.URL, err)
		}
	}
	if b.Thingspeak.TimeoutMs < 0 {
		return fmt.Errorf("thingspeak: timeout_ms must be >= 0, got %d", b.Thingspeak.TimeoutMs)
	}

	return nil
}
