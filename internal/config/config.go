// Package config defines process configuration for the dev server and the
// command-line client.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives a rotated copy of the log output.
	LogFile string `koanf:"log_file"`

	// Addr configures the dev server listen address, e.g. ":5173".
	Addr string `koanf:"addr"`

	// APIRoot is the fixed prefix in front of every logical API path.
	APIRoot string `koanf:"api_root"`

	// BackendURL is where the dev server forwards API requests.
	BackendURL string `koanf:"backend_url"`

	// CookieDomain replaces the Domain attribute of proxied cookies.
	CookieDomain string `koanf:"cookie_domain"`

	// BaseURL is the origin the command-line client talks to.
	BaseURL string `koanf:"base_url"`

	// SessionFile stores the role marker and cookies of the command-line client.
	SessionFile string `koanf:"session_file"`

	// RequestTimeoutMS bounds a single API call; 0 disables the timeout.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":5173",
		APIRoot:      "/api",
		BackendURL:   "http://127.0.0.1:5000",
		CookieDomain: "localhost",
		BaseURL:      "http://localhost:5173",
		SessionFile:  ".parkspot/session.json",
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
