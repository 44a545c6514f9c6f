package apiclient

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/parkspot/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the origin in front of the API root, e.g.
// "http://localhost:5173".
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRoot replaces the default "/api" prefix.
func WithRoot(root string) Option {
	return func(c *Client) {
		c.root = strings.TrimRight(root, "/")
	}
}

// WithHTTPClient uses hc for transport. The client is copied; a cookie jar
// is attached to the copy when hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithSession sets the session cleared on 401 responses.
func WithSession(s SessionClearer) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequestIDs toggles the X-Request-ID header on outgoing requests.
func WithRequestIDs(enabled bool) Option {
	return func(c *Client) {
		c.requestIDs = enabled
	}
}
