package api

// Functional options that configure the Client during construction. Kept in
// a standalone file so the available knobs are discoverable at a glance.

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/rs/zerolog/log"
)

// Option mutates the Client during New().
type Option func(*Client) error

// WithHTTPClient injects a custom *http.Client for all calls, including
// analyze. Useful for transport overrides in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		c.analyze = hc
		return nil
	}
}

// WithTimeouts bounds the default and analyze HTTP clients.
func WithTimeouts(defaultTimeout, analyzeTimeout time.Duration) Option {
	return func(c *Client) error {
		if defaultTimeout > 0 {
			c.http.Timeout = defaultTimeout
		}
		if analyzeTimeout > 0 {
			c.analyze.Timeout = analyzeTimeout
		}
		return nil
	}
}

// WithHeader attaches a header to every request. Caller-supplied headers
// override the client's defaults, including Content-Type.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		if key == "" {
			return fmt.Errorf("empty header key")
		}
		c.headers[key] = value
		return nil
	}
}

// WithBearerToken authenticates every request. The service also accepts
// anonymous callers, so an empty token is a no-op.
func WithBearerToken(token string) Option {
	return func(c *Client) error {
		if token != "" {
			c.headers["Authorization"] = "Bearer " + token
		}
		return nil
	}
}

// WithDebugLogging wraps both transports so every round trip is dumped to
// the debug log.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if !enabled {
			return nil
		}
		c.http.Transport = &debugTransport{base: transportOrDefault(c.http.Transport)}
		if c.analyze != c.http {
			c.analyze.Transport = &debugTransport{base: transportOrDefault(c.analyze.Transport)}
		}
		return nil
	}
}

func transportOrDefault(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(dump)).Msg("HTTP request")
	}
	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}
	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Int("status_code", resp.StatusCode).Str("response_dump", string(dump)).Msg("HTTP response")
	}
	return resp, nil
}
