// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ProviderConfig holds settings for the OpenAlex provider client.
type ProviderConfig struct {
	// BaseURL is the OpenAlex API root (default "https://api.openalex.org").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Mailto is the contact email sent with every request for polite-pool
	// access.
	Mailto string `json:"mailto" yaml:"mailto" mapstructure:"mailto"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "collab-finder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout is the HTTP request timeout (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// RequestsPerSecond caps the outbound request rate (default 8).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries bounds retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Validate checks the provider configuration.
func (c ProviderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
	)
}

// OfflineConfig holds settings for the offline substitute dataset.
type OfflineConfig struct {
	// Path is the SQLite database file for the canned snapshot. The
	// schema is created and seeded on first open.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Validate checks the offline configuration.
func (c OfflineConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.Required),
	)
}

// EngineConfig holds tunables for graph, trend, and compatibility
// computations.
type EngineConfig struct {
	// WorksPerAuthor is the number of works pulled when building a
	// research profile or author network (default 200, max 200).
	WorksPerAuthor int `json:"works_per_author" yaml:"works_per_author" mapstructure:"works_per_author"`

	// TrendWindowYears is the length of each trending window in calendar
	// years (default 1).
	TrendWindowYears int `json:"trend_window_years" yaml:"trend_window_years" mapstructure:"trend_window_years"`

	// TrendPerPage is the group-by page size for trending pulls
	// (default 200).
	TrendPerPage int `json:"trend_per_page" yaml:"trend_per_page" mapstructure:"trend_per_page"`

	// FanoutConcurrency bounds the enrichment worker pool (default 5).
	FanoutConcurrency int `json:"fanout_concurrency" yaml:"fanout_concurrency" mapstructure:"fanout_concurrency"`

	// DefaultUserID is the author used as the compatibility baseline when
	// the request does not name one.
	DefaultUserID string `json:"default_user_id" yaml:"default_user_id" mapstructure:"default_user_id"`
}

// Validate checks the engine configuration.
func (c EngineConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.WorksPerAuthor, validation.Min(0), validation.Max(200)),
		validation.Field(&c.TrendWindowYears, validation.Min(0)),
		validation.Field(&c.FanoutConcurrency, validation.Min(0)),
	)
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address (default ":5000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// LogLevel is the zerolog level name (default "info").
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// Validate checks the server configuration.
func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
	)
}

// Config groups all collab-finder configuration.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Provider ProviderConfig `json:"provider" yaml:"provider" mapstructure:"provider"`
	Offline  OfflineConfig  `json:"offline" yaml:"offline" mapstructure:"offline"`
	Engine   EngineConfig   `json:"engine" yaml:"engine" mapstructure:"engine"`
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	if err := c.Offline.Validate(); err != nil {
		return err
	}
	return c.Engine.Validate()
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":5000",
			LogLevel: "info",
		},
		Provider: ProviderConfig{
			BaseURL:           "https://api.openalex.org",
			Mailto:            "collab-finder@example.com",
			UserAgent:         "collab-finder/0.1",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 8,
			MaxRetries:        3,
		},
		Offline: OfflineConfig{
			Path: "offline/snapshot.db",
		},
		Engine: EngineConfig{
			WorksPerAuthor:    200,
			TrendWindowYears:  1,
			TrendPerPage:      200,
			FanoutConcurrency: 5,
			DefaultUserID:     "https://openalex.org/A1969205032",
		},
	}
}
