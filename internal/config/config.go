// Package config provides configuration types and loading for storectl.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level configuration for storectl.
type Config struct {
	// API configures the storefront API endpoint.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Search configures search input handling.
	Search SearchConfig `yaml:"search" mapstructure:"search"`

	// Session configures where the login session is persisted.
	Session SessionConfig `yaml:"session" mapstructure:"session"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// APIConfig configures the storefront API endpoint.
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://shop.example.com/api".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout is the per-request timeout as a duration string (e.g. "10s").
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`

	// PageSize is the catalog page size. Default: 12.
	PageSize int `yaml:"page_size" mapstructure:"page_size" validate:"omitempty,min=1,max=100"`
}

// SearchConfig configures search input handling.
type SearchConfig struct {
	// Debounce is the quiescence interval before a typed search term
	// triggers a request (e.g. "300ms").
	Debounce string `yaml:"debounce" mapstructure:"debounce" validate:"omitempty,duration"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// Path is the session file location. Default: ~/.storectl/session.json.
	Path string `yaml:"path" mapstructure:"path"`
}

// SetDefaults fills zero-valued optional fields.
func (c *Config) SetDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080/api"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "10s"
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = 12
	}
	if c.Search.Debounce == "" {
		c.Search.Debounce = "300ms"
	}
	if c.Session.Path == "" {
		c.Session.Path = defaultSessionPath()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// APITimeout returns the parsed request timeout, falling back to 10s.
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// SearchDebounce returns the parsed debounce interval, falling back to 300ms.
func (c *Config) SearchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// defaultSessionPath returns ~/.storectl/session.json, or a temp-dir
// fallback when the home directory cannot be resolved.
func defaultSessionPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".storectl", "session.json")
	}
	return filepath.Join(os.TempDir(), "storectl-session.json")
}
