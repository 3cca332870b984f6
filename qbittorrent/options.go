package qbittorrent

import "time"

// DefaultTimeout bounds every request to qBittorrent.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout       time.Duration
	tlsSkipVerify bool
	basicUser     string
	basicPass     string
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout: DefaultTimeout,
	}
}

// WithTimeout sets the HTTP client timeout. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithInsecureSkipVerify disables certificate verification.
// Use with caution and only for development/testing.
func WithInsecureSkipVerify() Option {
	return func(o *clientOptions) {
		o.tlsSkipVerify = true
	}
}

// WithBasicAuth sets HTTP basic auth credentials for a WebUI behind a
// reverse proxy.
func WithBasicAuth(user, pass string) Option {
	return func(o *clientOptions) {
		o.basicUser = user
		o.basicPass = pass
	}
}
