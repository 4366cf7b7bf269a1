// internal/config/normalize.go
package config

// Defaults match the device protocol and the historical capture tooling.
const (
	DefaultBaudRate       = 9600
	DefaultReadTimeoutMs  = 1000
	DefaultPollIntervalMs = 100

	DefaultConnectAttempts = 3
	DefaultRetryDelayMs    = 2000
	DefaultReconnectLimit  = 5
	DefaultBackoffMs       = 5000

	DefaultStorePath = "health_data_current.csv"

	DefaultThingspeakURL       = "https://api.thingspeak.com/update"
	DefaultThingspeakTimeoutMs = 10000
)

// Normalize applies post-validation defaulting.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bridge

	if b.BaudRate == 0 {
		b.BaudRate = DefaultBaudRate
	}
	if b.ReadTimeoutMs == 0 {
		b.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if b.PollIntervalMs == 0 {
		b.PollIntervalMs = DefaultPollIntervalMs
	}

	if b.Connect.Attempts == 0 {
		b.Connect.Attempts = DefaultConnectAttempts
	}
	if b.Connect.RetryDelayMs == 0 {
		b.Connect.RetryDelayMs = DefaultRetryDelayMs
	}
	if b.Connect.ReconnectLimit == 0 {
		b.Connect.ReconnectLimit = DefaultReconnectLimit
	}
	if b.Connect.BackoffMs == 0 {
		b.Connect.BackoffMs = DefaultBackoffMs
	}

	if b.Store.Path == "" {
		b.Store.Path = DefaultStorePath
	}

	if b.Thingspeak.Enabled == nil {
		on := true
		b.Thingspeak.Enabled = &on
	}
	if b.Thingspeak.URL == "" {
		b.Thingspeak.URL = DefaultThingspeakURL
	}
	if b.Thingspeak.TimeoutMs == 0 {
		b.Thingspeak.TimeoutMs = DefaultThingspeakTimeoutMs
	}
}
