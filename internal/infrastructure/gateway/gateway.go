// Package gateway wraps outbound HTTP calls to the platform's backend
// services with uniform error handling. Every call returns an Envelope;
// transport failures, non-2xx non-JSON responses, and malformed bodies are
// all converted into an error envelope, never surfaced as an error return.
// Callers branch on Envelope.Status only.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// defaultMaxResponseSize is the maximum allowed response size (10MB)
const defaultMaxResponseSize = 10 * 1024 * 1024

// connectFailureMessage is the generic message shown for transport-level
// failures; callers must not branch on message text
const connectFailureMessage = "Failed to connect to server. Please try again later."

// Sentinel errors for internal logging; they never cross the Envelope boundary
var (
	ErrServiceUnavailable = errors.New("gateway: backend service unavailable")
	ErrInvalidResponse    = errors.New("gateway: invalid response from backend service")
)

// TokenSource supplies the bearer token for authenticated calls.
// An empty return means no Authorization header is sent.
type TokenSource func() string

// Client issues requests against a single backend service base URL
type Client struct {
	baseURL         string
	httpClient      *http.Client
	maxResponseSize int64
	token           TokenSource
	log             *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTokenSource attaches a bearer token source to the client
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithMaxResponseSize overrides the response size cap
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) { c.maxResponseSize = n }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a gateway client for one backend service.
// A zero timeout disables the client-level deadline; per-request contexts
// still abort in-flight calls.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: timeout},
		maxResponseSize: defaultMaxResponseSize,
		log:             log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string) *Envelope {
	return c.call(ctx, http.MethodGet, path, nil, "")
}

// Post issues a POST request with a JSON body (nil body sends no payload)
func (c *Client) Post(ctx context.Context, path string, body any) *Envelope {
	return c.callJSON(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body (nil body sends no payload)
func (c *Client) Put(ctx context.Context, path string, body any) *Envelope {
	return c.callJSON(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) *Envelope {
	return c.call(ctx, http.MethodDelete, path, nil, "")
}

func (c *Client) callJSON(ctx context.Context, method, path string, body any) *Envelope {
	if body == nil {
		return c.call(ctx, method, path, nil, "")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		c.log.Error("failed to encode request body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return errorEnvelope(0, connectFailureMessage)
	}
	return c.call(ctx, method, path, bytes.NewReader(payload), "application/json")
}

// call performs the request and normalizes every outcome into an Envelope
func (c *Client) call(ctx context.Context, method, path string, body io.Reader, contentType string) *Envelope {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		c.log.Error("failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return errorEnvelope(0, connectFailureMessage)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.NamedError("cause", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)),
		)
		if ctx.Err() != nil {
			return errorEnvelope(0, "Request cancelled.")
		}
		return errorEnvelope(0, connectFailureMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		c.log.Error("failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return errorEnvelope(resp.StatusCode, connectFailureMessage)
	}

	return c.decode(method, path, resp, raw)
}

// decode turns an HTTP response into the canonical envelope
func (c *Client) decode(method, path string, resp *http.Response, raw []byte) *Envelope {
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		// Non-JSON success is treated as a bare success (some endpoints
		// return empty bodies); anything else is an error
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &Envelope{Status: StatusSuccess, HTTPCode: resp.StatusCode}
		}
		return errorEnvelope(resp.StatusCode,
			fmt.Sprintf("Server returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	// Legacy endpoints return a bare JSON array instead of an envelope
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return &Envelope{Status: StatusSuccess, Data: trimmed, HTTPCode: resp.StatusCode, body: raw}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Error("malformed response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.NamedError("cause", fmt.Errorf("%w: %v", ErrInvalidResponse, err)),
		)
		return errorEnvelope(resp.StatusCode, connectFailureMessage)
	}

	env.HTTPCode = resp.StatusCode
	env.body = raw

	// Endpoints outside the canonical contract (auth service) omit the
	// status field; infer it from the HTTP code
	if env.Status == "" {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			env.Status = StatusSuccess
		} else {
			env.Status = StatusError
		}
	}

	return &env
}
