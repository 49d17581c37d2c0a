// Package api implements the typed HTTP client for the idea-analysis
// service. Every call is a single bounded attempt: no retries, failures are
// normalized into *Error, and 2xx bodies are decoded and validated before
// they reach the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxErrorBodyBytes = 64 << 10

// PageOptions bounds a list call. Zero values leave the server-side
// defaults in place.
type PageOptions struct {
	Limit  int
	Offset int
}

func (p PageOptions) apply(query url.Values) {
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		query.Set("offset", strconv.Itoa(p.Offset))
	}
}

// Client talks to the idea-analysis REST service. The base URL is resolved
// once at construction; there is no runtime reconfiguration.
type Client struct {
	baseURL string
	http    *http.Client
	analyze *http.Client
	headers map[string]string
}

// New constructs a Client with optional functional arguments. Analyze calls
// use a separate, longer-timeout HTTP client because they wait on the
// service's AI backend.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		analyze: &http.Client{Timeout: 90 * time.Second},
		headers: map[string]string{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	return c
}

// do issues one request and decodes a 2xx JSON body into out (when non-nil).
// Default headers are applied first and caller-supplied headers win on key
// collision.
func (c *Client) do(ctx context.Context, hc *http.Client, operation, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", operation, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		recordRequest(operation, 0, err)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	recordRequest(operation, resp.StatusCode, nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return newStatusError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", operation, ErrMalformedResponse, err)
	}
	return nil
}
