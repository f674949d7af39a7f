package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithBaseURL sets the API base URL.
// If not set, defaults to the STORECTL_API_BASE_URL environment variable.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP request timeout.
// If not set, defaults to 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client for making requests.
// This is useful for testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets the source of the bearer token attached to
// authenticated requests. A nil source or empty token sends no
// Authorization header.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector for request instrumentation.
// When nil, no metrics are recorded.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}
