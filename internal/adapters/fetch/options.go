package fetch

import (
	"net/http"
	"time"

	"github.com/okian/novacat/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each download.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithOffline makes the cache authoritative; nothing is downloaded.
func WithOffline(offline bool) Option {
	return func(c *Client) { c.offline = offline }
}

// WithLogger sets the client's logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
