// Package client provides the JSON-over-HTTP adapter used by the state
// containers in internal/store. It builds request URLs from path fragments,
// attaches JSON headers, parses JSON responses, and raises a typed error
// on non-2xx statuses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

var ErrEmptyPath = errors.New("request path is required")

// RequestError is the single error kind raised for failed requests. Callers
// get a human-readable message; no structured payload beyond that.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return "request failed: " + e.Message
}

// Config configures a Client.
type Config struct {
	// BaseURL is prepended to every path fragment.
	BaseURL string
	// Timeout bounds each request end to end. Defaults to 30s.
	Timeout time.Duration
	// Debug logs outgoing requests and response bodies. It must never
	// change behavior, only visibility.
	Debug  bool
	Logger *slog.Logger
}

// Client is a JSON HTTP adapter. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	debug   bool
	logger  *slog.Logger

	mu    sync.Mutex
	token string
}

// New creates a Client for the given configuration.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		debug:   cfg.Debug,
		logger:  logger,
	}
}

// SetToken stores the bearer token attached to subsequent requests. An
// empty token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token, if any.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Do issues a JSON request against path and decodes the response body into
// out (which may be nil to discard it). Caller headers are merged over the
// default Content-Type: application/json.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.DoWithHeaders(ctx, method, path, nil, body, out)
}

// DoWithHeaders is Do with extra request headers.
func (c *Client) DoWithHeaders(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	if path == "" {
		return ErrEmptyPath
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug {
		c.logger.Debug("api request", "method", method, "url", url)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: err.Error()}
	}

	if c.debug {
		c.logger.Debug("api response", "status", resp.StatusCode, "body", string(data))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Status: resp.StatusCode, Message: "parsing response: " + err.Error()}
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body. When
// the server supplies a message list, all entries are joined so nothing is
// silently dropped.
func errorMessage(status int, data []byte) string {
	var body struct {
		Message  string   `json:"message"`
		Messages []string `json:"messages"`
		Error    string   `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if len(body.Messages) > 0 {
			return strings.Join(body.Messages, "; ")
		}
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
