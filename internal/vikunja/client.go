package vikunja

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/config"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/logging"
)

const (
	apiVersion     = "v1"
	requestTimeout = 30 * time.Second

	// maxResponseBytes bounds how much of a response body is read. Shaped
	// tool output is capped far below this; the bound protects against a
	// misbehaving server, not normal operation.
	maxResponseBytes = 8 << 20
)

// RetryPolicy controls the dispatcher's retry behavior. NewBackOff is called
// once per logical request and yields the delay before each re-attempt;
// tests inject a generator with no randomization for deterministic timing.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// NewBackOff returns a fresh backoff state for one logical request.
	NewBackOff func() backoff.BackOff
}

// DefaultRetryPolicy returns the production retry policy: three attempts
// with exponential backoff starting at one second, doubling each attempt,
// with jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.Multiplier = 2
			b.RandomizationFactor = 0.25
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
}

// Client is an authenticated HTTP client for the Vikunja API. It owns the
// immutable credentials and a connection-reusing http.Client, and holds no
// other cross-call state, so a single Client is safe for concurrent use.
type Client struct {
	apiBase string
	token   string
	httpc   *http.Client
	logger  *slog.Logger
	retry   RetryPolicy
	onRetry func(ctx context.Context, resource string)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Used by tests and by
// deployments that need custom transport settings.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithRetryObserver registers a callback invoked once per re-attempt with the
// API resource being retried. The server wires this to the retry counter.
func WithRetryObserver(fn func(ctx context.Context, resource string)) Option {
	return func(c *Client) { c.onRetry = fn }
}

// NewClient creates a Vikunja API client from resolved credentials.
func NewClient(creds config.Credentials, opts ...Option) *Client {
	c := &Client{
		apiBase: strings.TrimRight(creds.BaseURL, "/") + "/api/" + apiVersion,
		token:   creds.Token,
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  slog.Default(),
		retry:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one logical API request with retry. Rate-limit, server and
// network errors are retried up to the policy's attempt budget; other client
// errors fail immediately. A Retry-After value from a rate-limit response
// overrides the computed delay when it is larger. When retries are
// exhausted, the last classified error is returned, never a generic timeout.
//
// Cancellation is terminal: once ctx is done no further attempt is made, so
// an abandoned write is never re-submitted during backoff.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	bo := c.retry.NewBackOff()
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if c.onRetry != nil {
				c.onRetry(ctx, resourceOf(path))
			}
			delay := nextDelay(bo, lastErr)
			c.logger.Debug("retrying request",
				logging.Operation(method+" "+path),
				logging.Attempt(attempt),
				slog.Duration(logging.KeyDuration, delay),
				logging.Err(lastErr))

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		hdr, err := c.doOnce(ctx, method, path, query, payload, out)
		if err == nil {
			return hdr, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// resourceOf extracts the leading path segment as a low-cardinality metric
// label: "projects/5/tasks" yields "projects".
func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// nextDelay computes the wait before the next attempt: the backoff delay,
// overridden by a Retry-After hint from the previous error when the hint is
// larger.
func nextDelay(bo backoff.BackOff, lastErr error) time.Duration {
	delay := bo.NextBackOff()
	if ra := retryAfterOf(lastErr); ra > delay {
		delay = ra
	}
	return delay
}

// doOnce executes a single HTTP request and classifies the response.
func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, payload []byte, out any) (http.Header, error) {
	u := c.apiBase + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// The error from http.Client may embed the full URL but never the
		// Authorization header, so it is safe to propagate.
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyResponse(resp, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}

// classifyResponse converts a non-2xx response into an APIError, preserving
// the remote message and any rate-limit delay hint.
func classifyResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var remote struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &remote); err == nil {
		apiErr.Message = remote.Message
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return apiErr
}
