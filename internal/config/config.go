// Package config loads runtime configuration from a JSON file with
// environment overrides.
package config

// Config represents the main Kestrel configuration.
type Config struct {
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	History  HistoryConfig  `json:"history" mapstructure:"history"`
	Recovery RecoveryConfig `json:"recovery" mapstructure:"recovery"`
	Memory   MemoryConfig   `json:"memory" mapstructure:"memory"`
	Metrics  MetricsConfig  `json:"metrics" mapstructure:"metrics"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// HistoryConfig bounds the executor's in-memory result history.
type HistoryConfig struct {
	Capacity int `json:"capacity" mapstructure:"capacity"`
}

// RecoveryConfig selects the recovery policy backend.
type RecoveryConfig struct {
	// Provider is "anthropic", "openai", or "" to disable recovery.
	Provider string `json:"provider" mapstructure:"provider"`
	Model    string `json:"model" mapstructure:"model"`

	// APIKeyEnv names the environment variable carrying the API key.
	APIKeyEnv string `json:"api_key_env" mapstructure:"api_key_env"`

	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`
}

// MemoryConfig locates the SQLite memory store.
type MemoryConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
		History: HistoryConfig{
			Capacity: 100,
		},
		Recovery: RecoveryConfig{
			Provider:  "",
			Model:     "claude-sonnet-4-5",
			APIKeyEnv: "ANTHROPIC_API_KEY",
			MaxTokens: 1024,
		},
		Memory: MemoryConfig{
			Path: ":memory:",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9109",
		},
	}
}
